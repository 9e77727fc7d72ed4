package parser

import "strings"

// byteOrderMark is stripped from header cells; spreadsheet exports often
// prepend it to the first column name.
const byteOrderMark = "\uFEFF"

// Header is the ordered column list of one parsed source plus a name lookup.
// When a name repeats, the later column wins on lookup.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader builds a Header from already cleaned column names.
func NewHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, n := range h.names {
		h.index[n] = i
	}
	return h
}

// Names returns a copy of the column names in file order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.names...)
}

// Len returns the number of columns, duplicates included.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Index returns the position used when looking up name.
func (h *Header) Index(name string) (int, bool) {
	if h == nil {
		return 0, false
	}
	i, ok := h.index[name]
	return i, ok
}

// Row is one data line zipped against the Header of the source it came from.
type Row struct {
	header *Header
	values []string
}

// NewRow pads values with empty strings or truncates them to the header width.
func NewRow(h *Header, values []string) Row {
	n := h.Len()
	vals := make([]string, n)
	copy(vals, values)
	return Row{header: h, values: vals}
}

// Get returns the value stored under the column name, or "" when the
// source has no such column.
func (r Row) Get(name string) string {
	i, ok := r.header.Index(name)
	if !ok {
		return ""
	}
	return r.values[i]
}

// Table is the parsed content of one source.
type Table struct {
	Header *Header
	Rows   []Row
}

// Headers returns the column names of the table.
func (t *Table) Headers() []string {
	if t == nil {
		return nil
	}
	return t.Header.Names()
}

// buildTable turns raw records into a Table. The first record is the header.
// Records are expected to be already split; cells are trimmed here.
func buildTable(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{Header: NewHeader(nil)}
	}
	names := make([]string, len(records[0]))
	for i, h := range records[0] {
		names[i] = strings.TrimSpace(strings.ReplaceAll(h, byteOrderMark, ""))
	}
	header := NewHeader(names)
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		vals := make([]string, len(rec))
		for i, v := range rec {
			vals[i] = strings.TrimSpace(v)
		}
		rows = append(rows, NewRow(header, vals))
	}
	return &Table{Header: header, Rows: rows}
}
