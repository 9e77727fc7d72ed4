package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/orderlens/internal/columns"
	"github.com/KaramelBytes/orderlens/internal/parser"
	"github.com/KaramelBytes/orderlens/internal/store"
)

// ViewMode selects which pivot is presented and searched.
type ViewMode int

const (
	ViewContent ViewMode = iota
	ViewCreator
	ViewProduct
)

func (m ViewMode) String() string {
	switch m {
	case ViewCreator:
		return "creator"
	case ViewProduct:
		return "product"
	default:
		return "content"
	}
}

// ParseViewMode accepts content|video, creator and product|sku.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "content", "video", "":
		return ViewContent, nil
	case "creator":
		return ViewCreator, nil
	case "product", "sku":
		return ViewProduct, nil
	default:
		return ViewContent, fmt.Errorf("unknown view %q (use content|creator|product)", s)
	}
}

// Query is the caller-controlled state applied on top of the row store.
type Query struct {
	Filter SkuSet
	Mode   ViewMode
	Search string
}

// ViewCounts is the size of each pivot after filtering, before search.
type ViewCounts struct {
	Contents int `json:"contents" yaml:"contents"`
	Creators int `json:"creators" yaml:"creators"`
	Products int `json:"products" yaml:"products"`
}

// Views is everything the presentation layer needs after one derivation.
// Only the list matching Mode is populated among Contents, Creators and
// Products, with the search term applied; All carries the unsearched pivots.
type Views struct {
	Mode         ViewMode          `json:"-" yaml:"-"`
	ModeName     string            `json:"view" yaml:"view"`
	Search       string            `json:"search,omitempty" yaml:"search,omitempty"`
	ActiveSKUs   []string          `json:"active_skus" yaml:"active_skus"`
	Columns      map[string]string `json:"columns" yaml:"columns"`
	Metrics      GlobalMetrics     `json:"metrics" yaml:"metrics"`
	TotalRows    int               `json:"total_rows" yaml:"total_rows"`
	FilteredRows int               `json:"filtered_rows" yaml:"filtered_rows"`
	Counts       ViewCounts        `json:"counts" yaml:"counts"`
	Sources      []store.Source    `json:"sources,omitempty" yaml:"sources,omitempty"`

	Contents []ContentAggregate `json:"contents,omitempty" yaml:"contents,omitempty"`
	Creators []CreatorAggregate `json:"creators,omitempty" yaml:"creators,omitempty"`
	Products []ProductAggregate `json:"products,omitempty" yaml:"products,omitempty"`

	All      *Aggregates      `json:"-" yaml:"-"`
	Resolved columns.Resolved `json:"-" yaml:"-"`
}

// DeriveViews runs the whole pipeline: resolve columns, compute global
// metrics over every row, filter by SKU, aggregate, then search the active
// pivot. It is a pure function of its inputs.
func DeriveViews(rows []parser.Row, headers []string, frags columns.Fragments, q Query) *Views {
	cols := columns.Resolve(headers, frags)
	filter := q.Filter.Clone()
	filtered := Filter(rows, filter, cols.Column(columns.SKU))
	all := Aggregate(filtered, cols)
	for i := range all.Products {
		all.Products[i].Selected = all.Products[i].SelectionFor(filter)
	}

	v := &Views{
		Mode:         q.Mode,
		ModeName:     q.Mode.String(),
		Search:       q.Search,
		ActiveSKUs:   filter.Sorted(),
		Columns:      cols.Map(),
		Metrics:      ComputeGlobalMetrics(rows, cols),
		TotalRows:    len(rows),
		FilteredRows: len(filtered),
		Counts: ViewCounts{
			Contents: len(all.Contents),
			Creators: len(all.Creators),
			Products: len(all.Products),
		},
		All:          all,
		Resolved:     cols,
	}
	switch q.Mode {
	case ViewCreator:
		v.Creators = Search(all.Creators, q.Search)
	case ViewProduct:
		v.Products = Search(all.Products, q.Search)
	default:
		v.Contents = Search(all.Contents, q.Search)
	}
	return v
}

// Files is the number of loaded report files, failed ones included.
func (v *Views) Files() int { return len(v.Sources) }

// Len is the number of visible items in the active pivot.
func (v *Views) Len() int {
	switch v.Mode {
	case ViewCreator:
		return len(v.Creators)
	case ViewProduct:
		return len(v.Products)
	default:
		return len(v.Contents)
	}
}

// FindProduct looks a product up by exact name among the unsearched pivot.
func (v *Views) FindProduct(name string) (ProductAggregate, bool) {
	if v.All == nil {
		return ProductAggregate{}, false
	}
	for _, p := range v.All.Products {
		if p.ID == name {
			return p, true
		}
	}
	return ProductAggregate{}, false
}

// Truncate limits the visible list to n items; n <= 0 is a no-op.
func (v *Views) Truncate(n int) {
	if n <= 0 {
		return
	}
	if len(v.Contents) > n {
		v.Contents = v.Contents[:n]
	}
	if len(v.Creators) > n {
		v.Creators = v.Creators[:n]
	}
	if len(v.Products) > n {
		v.Products = v.Products[:n]
	}
}
