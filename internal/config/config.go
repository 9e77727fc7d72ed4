package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/orderlens/internal/columns"
	"github.com/KaramelBytes/orderlens/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Columns maps a role key (order_id, quantity, ...) to the header fragment
	// used to find it. Unset roles keep the built-in fragment.
	Columns      map[string]string `mapstructure:"columns" yaml:"columns,omitempty"`
	DefaultView  string            `mapstructure:"default_view" yaml:"default_view"`
	OutputFormat string            `mapstructure:"output_format" yaml:"output_format"`
	LogLevel     string            `mapstructure:"log_level" yaml:"log_level"`
	HistoryFile  string            `mapstructure:"history_file" yaml:"history_file,omitempty"`
}

// Fragments returns the effective column fragments: the defaults overlaid
// with whatever the config sets.
func (c *Global) Fragments() columns.Fragments {
	if c == nil {
		return columns.DefaultFragments()
	}
	return columns.FragmentsFromMap(c.Columns)
}

// Dir returns ~/.orderlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".orderlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.orderlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ORDERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("default_view", "content")
	v.SetDefault("output_format", "table")
	v.SetDefault("log_level", "info")
	for role, frag := range columns.DefaultFragments() {
		v.SetDefault("columns."+role.String(), frag)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HistoryFile == "" {
		if dir, err := Dir(); err == nil {
			c.HistoryFile = filepath.Join(dir, "history")
		}
	}
	return &c, nil
}
