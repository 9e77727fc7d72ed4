package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parser turns the bytes of one report file into a Table.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (*Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseFile reads path, unwraps gzip/bzip2/xz content and dispatches on the
// (inner) file extension. Unknown extensions are parsed as CSV text.
func ParseFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseBytes(filepath.Base(path), data)
}

// ParseBytes is ParseFile for content already in memory.
func ParseBytes(name string, data []byte) (*Table, error) {
	data, name, err := decompress(data, name)
	if err != nil {
		return nil, err
	}
	for _, p := range registry {
		if p.CanParse(name) {
			return p.Parse(data)
		}
	}
	return csvParser{}.Parse(data)
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
	Register(legacyParser{})
}

// ErrUnsupported indicates a format is recognised but cannot be read.
var ErrUnsupported = errors.New("unsupported report format")

// legacyParser rejects binary spreadsheet formats that would otherwise be
// misread as CSV text.
type legacyParser struct{}

func (legacyParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xls") || strings.HasSuffix(name, ".numbers")
}

func (legacyParser) Parse(_ []byte) (*Table, error) {
	return nil, fmt.Errorf("%w: convert to .csv or .xlsx first", ErrUnsupported)
}
