package parser

import (
	"strings"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".txt")
}

func (csvParser) Parse(content []byte) (*Table, error) {
	return ParseText(string(content)), nil
}

// ParseText parses comma-delimited report text. Blank lines are skipped, the
// first remaining line is the header and every other line is a data row.
// Malformed quoting never fails; see SplitFields.
func ParseText(text string) *Table {
	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, SplitFields(line))
	}
	return buildTable(records)
}

// SplitFields splits one line on commas outside double quotes. A doubled
// quote is an escaped literal quote. An unterminated quote runs to the end of
// the line and the partial field is kept. Fields are trimmed.
func SplitFields(line string) []string {
	return SplitFieldsOn(line, ',')
}

// SplitFieldsOn is SplitFields with a custom separator byte.
func SplitFieldsOn(line string, sep byte) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuote = !inQuote
		case c == sep && !inQuote:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}
