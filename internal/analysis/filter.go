package analysis

import (
	"sort"

	"github.com/KaramelBytes/orderlens/internal/parser"
)

// SkuSet is the active filter: selected SKU variant ids. Empty means every
// row participates.
type SkuSet map[string]struct{}

// NewSkuSet builds a set from ids.
func NewSkuSet(ids ...string) SkuSet {
	s := make(SkuSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s SkuSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips membership of id and reports whether it is now selected.
func (s SkuSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// Clone returns an independent copy.
func (s SkuSet) Clone() SkuSet {
	out := make(SkuSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s SkuSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Filter keeps the rows whose SKU value is selected. Rows without a SKU are
// matched under UnsetSKU. An empty set returns rows unchanged.
func Filter(rows []parser.Row, active SkuSet, skuColumn string) []parser.Row {
	if len(active) == 0 {
		return rows
	}
	out := make([]parser.Row, 0, len(rows))
	for _, r := range rows {
		if active.Has(orDefault(r.Get(skuColumn), UnsetSKU)) {
			out = append(out, r)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
