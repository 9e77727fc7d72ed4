// Package analysis derives the content, creator and product pivots of an
// attribution report from parsed rows.
package analysis

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/orderlens/internal/columns"
	"github.com/KaramelBytes/orderlens/internal/parser"
)

// Placeholders substituted for empty values during aggregation.
const (
	UnknownContent = "未知内容"
	UnknownCreator = "未知达人"
	UnsetSKU       = "未设置SKU"
	UnnamedProduct = "未命名商品"
)

// TopN bounds the ranked sub-lists of creators and products.
const TopN = 3

// Quantity is a ranked (id, quantity) pair. URL is set for content ids only.
type Quantity struct {
	ID  string `json:"id" yaml:"id"`
	Qty int    `json:"qty" yaml:"qty"`
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// contentURLPrefix is the public video page address on the marketplace.
const contentURLPrefix = "https://www.tiktok.com/@/video/"

// ContentURL returns the public page of a content id, or "" for the empty id
// and the UnknownContent placeholder.
func ContentURL(id string) string {
	if id == "" || id == UnknownContent {
		return ""
	}
	return contentURLPrefix + id
}

// withURLs fills URL on a list keyed by content id.
func withURLs(list []Quantity) []Quantity {
	for i := range list {
		list[i].URL = ContentURL(list[i].ID)
	}
	return list
}

// ContentAggregate rolls up every row attributed to one content id.
type ContentAggregate struct {
	ID       string     `json:"id" yaml:"id"`
	URL      string     `json:"url,omitempty" yaml:"url,omitempty"`
	Creator  string     `json:"creator" yaml:"creator"`
	Orders   int        `json:"orders" yaml:"orders"`
	TotalQty int        `json:"total_qty" yaml:"total_qty"`
	SKUs     []Quantity `json:"skus" yaml:"skus"`
}

// CreatorAggregate rolls up every row credited to one creator.
type CreatorAggregate struct {
	ID          string     `json:"id" yaml:"id"`
	Orders      int        `json:"orders" yaml:"orders"`
	TotalQty    int        `json:"total_qty" yaml:"total_qty"`
	ContentIDs  []string   `json:"content_ids" yaml:"content_ids"`
	TopSKUs     []Quantity `json:"top_skus" yaml:"top_skus"`
	TopContents []Quantity `json:"top_contents" yaml:"top_contents"`
}

// ProductAggregate rolls up every row of one product name. Variants is the
// complete, untruncated list of SKU variants seen under the product.
// Selected is filled by DeriveViews from the active filter.
type ProductAggregate struct {
	ID          string     `json:"id" yaml:"id"`
	Selected    Selection  `json:"selected" yaml:"selected"`
	Orders      int        `json:"orders" yaml:"orders"`
	TotalQty    int        `json:"total_qty" yaml:"total_qty"`
	Variants    []Quantity `json:"variants" yaml:"variants"`
	TopContents []Quantity `json:"top_contents" yaml:"top_contents"`
}

// Selection is how much of a product's variant list the filter covers.
type Selection string

const (
	SelectedNone Selection = ""
	SelectedSome Selection = "some"
	SelectedAll  Selection = "all"
)

func (c ContentAggregate) Key() string { return c.ID }
func (c CreatorAggregate) Key() string { return c.ID }
func (p ProductAggregate) Key() string { return p.ID }

// VariantIDs returns the product's SKU variant ids in first-seen order.
func (p ProductAggregate) VariantIDs() []string {
	ids := make([]string, len(p.Variants))
	for i, v := range p.Variants {
		ids[i] = v.ID
	}
	return ids
}

// AllVariantsSelected reports whether every variant of p is in active.
func (p ProductAggregate) AllVariantsSelected(active SkuSet) bool {
	for _, v := range p.Variants {
		if !active.Has(v.ID) {
			return false
		}
	}
	return len(p.Variants) > 0
}

// AnyVariantSelected reports whether at least one variant of p is in active.
func (p ProductAggregate) AnyVariantSelected(active SkuSet) bool {
	for _, v := range p.Variants {
		if active.Has(v.ID) {
			return true
		}
	}
	return false
}

// SelectionFor classifies p against active.
func (p ProductAggregate) SelectionFor(active SkuSet) Selection {
	switch {
	case p.AllVariantsSelected(active):
		return SelectedAll
	case p.AnyVariantSelected(active):
		return SelectedSome
	default:
		return SelectedNone
	}
}

// Aggregates holds the three pivots built from one pass over the same rows.
type Aggregates struct {
	Contents []ContentAggregate `json:"contents" yaml:"contents"`
	Creators []CreatorAggregate `json:"creators" yaml:"creators"`
	Products []ProductAggregate `json:"products" yaml:"products"`
}

// Aggregate folds rows into content, creator and product pivots in a single
// pass, so all three read the same quantity and order id per row. Each list
// is sorted by total quantity descending; ties keep first-seen order.
func Aggregate(rows []parser.Row, cols columns.Resolved) *Aggregates {
	contents := newAccumulator(func(id string) *contentAcc {
		return &contentAcc{id: id, orders: newIDSet(), skus: newTally()}
	})
	creators := newAccumulator(func(id string) *creatorAcc {
		return &creatorAcc{id: id, orders: newIDSet(), contentIDs: newIDSet(), skus: newTally(), contents: newTally()}
	})
	products := newAccumulator(func(id string) *productAcc {
		return &productAcc{id: id, orders: newIDSet(), variants: newTally(), contents: newTally()}
	})

	for idx, row := range rows {
		content := orDefault(cols.Value(row, columns.ContentID), UnknownContent)
		creator := orDefault(cols.Value(row, columns.Creator), UnknownCreator)
		sku := orDefault(cols.Value(row, columns.SKU), UnsetSKU)
		product := orDefault(cols.Value(row, columns.ProductName), UnnamedProduct)
		order := orDefault(cols.Value(row, columns.OrderID), fmt.Sprintf("row-%d", idx))
		qty := ParseQuantity(cols.Value(row, columns.Quantity))

		c, created := contents.upsert(content)
		if created {
			c.creator = creator
		}
		c.orders.add(order)
		c.total += qty
		c.skus.add(sku, qty)

		cr, _ := creators.upsert(creator)
		cr.orders.add(order)
		cr.total += qty
		cr.contentIDs.add(content)
		cr.skus.add(sku, qty)
		cr.contents.add(content, qty)

		p, _ := products.upsert(product)
		p.orders.add(order)
		p.total += qty
		p.variants.add(sku, qty)
		p.contents.add(content, qty)
	}

	out := &Aggregates{
		Contents: make([]ContentAggregate, 0, contents.len()),
		Creators: make([]CreatorAggregate, 0, creators.len()),
		Products: make([]ProductAggregate, 0, products.len()),
	}
	contents.each(func(c *contentAcc) { out.Contents = append(out.Contents, c.publish()) })
	creators.each(func(c *creatorAcc) { out.Creators = append(out.Creators, c.publish()) })
	products.each(func(p *productAcc) { out.Products = append(out.Products, p.publish()) })

	sort.SliceStable(out.Contents, func(i, j int) bool { return out.Contents[i].TotalQty > out.Contents[j].TotalQty })
	sort.SliceStable(out.Creators, func(i, j int) bool { return out.Creators[i].TotalQty > out.Creators[j].TotalQty })
	sort.SliceStable(out.Products, func(i, j int) bool { return out.Products[i].TotalQty > out.Products[j].TotalQty })
	return out
}

// accumulator is an insertion-ordered map of per-key entries created lazily.
type accumulator[T any] struct {
	keys    []string
	entries map[string]*T
	create  func(key string) *T
}

func newAccumulator[T any](create func(key string) *T) *accumulator[T] {
	return &accumulator[T]{entries: make(map[string]*T), create: create}
}

// upsert returns the entry for key, creating it on first sight.
func (a *accumulator[T]) upsert(key string) (*T, bool) {
	if e, ok := a.entries[key]; ok {
		return e, false
	}
	e := a.create(key)
	a.entries[key] = e
	a.keys = append(a.keys, key)
	return e, true
}

func (a *accumulator[T]) len() int { return len(a.keys) }

func (a *accumulator[T]) each(fn func(*T)) {
	for _, k := range a.keys {
		fn(a.entries[k])
	}
}

// tally sums quantities per key, remembering first-seen order.
type tally struct {
	keys []string
	qty  map[string]int
}

func newTally() *tally { return &tally{qty: make(map[string]int)} }

func (t *tally) add(key string, qty int) {
	if _, ok := t.qty[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.qty[key] += qty
}

func (t *tally) list() []Quantity {
	out := make([]Quantity, len(t.keys))
	for i, k := range t.keys {
		out[i] = Quantity{ID: k, Qty: t.qty[k]}
	}
	return out
}

type idSet struct {
	keys []string
	seen map[string]struct{}
}

func newIDSet() *idSet { return &idSet{seen: make(map[string]struct{})} }

func (s *idSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.keys = append(s.keys, id)
}

func (s *idSet) list() []string { return append([]string(nil), s.keys...) }

type contentAcc struct {
	id, creator string
	orders      *idSet
	total       int
	skus        *tally
}

func (c *contentAcc) publish() ContentAggregate {
	return ContentAggregate{
		ID:       c.id,
		URL:      ContentURL(c.id),
		Creator:  c.creator,
		Orders:   len(c.orders.keys),
		TotalQty: c.total,
		SKUs:     c.skus.list(),
	}
}

type creatorAcc struct {
	id         string
	orders     *idSet
	total      int
	contentIDs *idSet
	skus       *tally
	contents   *tally
}

func (c *creatorAcc) publish() CreatorAggregate {
	return CreatorAggregate{
		ID:          c.id,
		Orders:      len(c.orders.keys),
		TotalQty:    c.total,
		ContentIDs:  c.contentIDs.list(),
		TopSKUs:     Top(c.skus.list(), TopN),
		TopContents: withURLs(Top(c.contents.list(), TopN)),
	}
}

type productAcc struct {
	id       string
	orders   *idSet
	total    int
	variants *tally
	contents *tally
}

func (p *productAcc) publish() ProductAggregate {
	return ProductAggregate{
		ID:          p.id,
		Orders:      len(p.orders.keys),
		TotalQty:    p.total,
		Variants:    p.variants.list(),
		TopContents: withURLs(Top(p.contents.list(), TopN)),
	}
}
