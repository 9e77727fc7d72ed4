package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/orderlens/internal/analysis"
	"github.com/KaramelBytes/orderlens/internal/columns"
	cfgpkg "github.com/KaramelBytes/orderlens/internal/config"
	"github.com/KaramelBytes/orderlens/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set orderlens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "default_view: %s\n", c.DefaultView)
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		if c.HistoryFile != "" {
			fmt.Fprintf(out, "history_file: %s\n", c.HistoryFile)
		}
		frags := c.Fragments()
		fmt.Fprintln(out, "columns:")
		for _, r := range columns.Roles() {
			fmt.Fprintf(out, "  %s: %s\n", r, frags[r])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Keys: default_view, output_format, log_level, history_file, columns.<role>
where <role> is one of order_id, quantity, creator, content_id, product_name, sku.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := strings.ToLower(args[0]), args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		switch {
		case key == "default_view":
			m, err := analysis.ParseViewMode(val)
			if err != nil {
				return err
			}
			c.DefaultView = m.String()
		case key == "output_format":
			if !validFormat(val) {
				return fmt.Errorf("invalid output_format: %s (use %s)", val, strings.Join(render.Formats, "|"))
			}
			c.OutputFormat = strings.ToLower(val)
		case key == "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "error":
				c.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case key == "history_file":
			c.HistoryFile = val
		case strings.HasPrefix(key, "columns."):
			role, ok := columns.ParseRole(strings.TrimPrefix(key, "columns."))
			if !ok {
				return fmt.Errorf("unknown column role: %s", strings.TrimPrefix(key, "columns."))
			}
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("empty fragment for %s", key)
			}
			if c.Columns == nil {
				c.Columns = map[string]string{}
			}
			c.Columns[role.String()] = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func validFormat(f string) bool {
	f = strings.ToLower(f)
	for _, ok := range render.Formats {
		if f == ok {
			return true
		}
	}
	return false
}
