package analysis

import (
	"github.com/KaramelBytes/orderlens/internal/columns"
	"github.com/KaramelBytes/orderlens/internal/parser"
)

// GlobalMetrics summarises the whole upload, ignoring any active filter.
// Empty ids are not counted.
type GlobalMetrics struct {
	Orders   int `json:"orders" yaml:"orders"`
	Quantity int `json:"quantity" yaml:"quantity"`
	Contents int `json:"contents" yaml:"contents"`
	Creators int `json:"creators" yaml:"creators"`
}

// ComputeGlobalMetrics must be given the unfiltered rows.
func ComputeGlobalMetrics(rows []parser.Row, cols columns.Resolved) GlobalMetrics {
	orders := map[string]struct{}{}
	contents := map[string]struct{}{}
	creators := map[string]struct{}{}
	var m GlobalMetrics
	for _, r := range rows {
		if v := cols.Value(r, columns.OrderID); v != "" {
			orders[v] = struct{}{}
		}
		if v := cols.Value(r, columns.ContentID); v != "" {
			contents[v] = struct{}{}
		}
		if v := cols.Value(r, columns.Creator); v != "" {
			creators[v] = struct{}{}
		}
		m.Quantity += ParseQuantity(cols.Value(r, columns.Quantity))
	}
	m.Orders = len(orders)
	m.Contents = len(contents)
	m.Creators = len(creators)
	return m
}
