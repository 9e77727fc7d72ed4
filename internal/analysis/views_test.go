package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/orderlens/internal/columns"
)

func TestParseQuantity(t *testing.T) {
	cases := map[string]int{
		"3":      3,
		" 12 ":   12,
		"":       0,
		"abc":    0,
		"3.9":    3,
		"7 pcs":  7,
		"-2":     -2,
		"+4":     4,
		"-":      0,
		"1,000":  1,
		"x5":     0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseQuantity(in), "input %q", in)
	}
}

func TestGlobalMetrics_IgnoreFilter(t *testing.T) {
	rows, headers := sampleRows(t)
	frags := columns.DefaultFragments()

	base := DeriveViews(rows, headers, frags, Query{})
	filtered := DeriveViews(rows, headers, frags, Query{Filter: NewSkuSet("hat-grey")})

	assert.Equal(t, base.Metrics, filtered.Metrics)
	assert.Equal(t, GlobalMetrics{Orders: 6, Quantity: 17, Contents: 4, Creators: 3}, base.Metrics)
	assert.Equal(t, 7, filtered.TotalRows)
	assert.Equal(t, 1, filtered.FilteredRows)
}

func TestSearch_CaseInsensitivePrimaryIDOnly(t *testing.T) {
	rows, headers := loadRows(t,
		"o1,v1,CreatorX,P,sku-x,1",
		"o2,v2,other,P,creatorx-sku,1",
	)
	views := DeriveViews(rows, headers, columns.DefaultFragments(),
		Query{Mode: ViewCreator, Search: "creatorx"})

	require.Len(t, views.Creators, 1)
	assert.Equal(t, "CreatorX", views.Creators[0].ID)
	assert.Nil(t, views.Contents)
	assert.Nil(t, views.Products)
	assert.Len(t, views.All.Creators, 2, "unsearched pivots stay complete")
}

func TestSearch_EmptyTermIsIdentity(t *testing.T) {
	list := []ContentAggregate{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, list, Search(list, ""))
	assert.Empty(t, Search(list, "zzz"))
}

func TestProductMembershipFlags(t *testing.T) {
	p := ProductAggregate{ID: "Shirt", Variants: []Quantity{{ID: "red", Qty: 1}, {ID: "blue", Qty: 2}}}

	assert.False(t, p.AllVariantsSelected(NewSkuSet("red")))
	assert.True(t, p.AnyVariantSelected(NewSkuSet("red")))
	assert.True(t, p.AllVariantsSelected(NewSkuSet("red", "blue", "other")))
	assert.False(t, p.AnyVariantSelected(NewSkuSet("other")))
	assert.Equal(t, []string{"red", "blue"}, p.VariantIDs())
	assert.False(t, ProductAggregate{}.AllVariantsSelected(NewSkuSet()))

	assert.Equal(t, SelectedSome, p.SelectionFor(NewSkuSet("blue")))
	assert.Equal(t, SelectedAll, p.SelectionFor(NewSkuSet("red", "blue")))
	assert.Equal(t, SelectedNone, p.SelectionFor(NewSkuSet()))
}

func TestContentURL(t *testing.T) {
	assert.Equal(t, "https://www.tiktok.com/@/video/7301", ContentURL("7301"))
	assert.Empty(t, ContentURL(""))
	assert.Empty(t, ContentURL(UnknownContent))
}

func TestViews_CountsAndSelection(t *testing.T) {
	rows, headers := sampleRows(t)
	views := DeriveViews(rows, headers, columns.DefaultFragments(),
		Query{Mode: ViewProduct, Filter: NewSkuSet("shirt-red", "mug-white"), Search: "mug"})

	// counts follow the filter but ignore the search
	assert.Equal(t, ViewCounts{Contents: 3, Creators: 2, Products: 2}, views.Counts)
	require.Len(t, views.Products, 1)
	assert.Equal(t, SelectedAll, views.Products[0].Selected)

	shirt, ok := views.FindProduct("Shirt")
	require.True(t, ok)
	// shirt-blue is filtered away, so every visible variant is selected
	assert.Equal(t, SelectedAll, shirt.Selected)

	unfiltered := DeriveViews(rows, headers, columns.DefaultFragments(),
		Query{Mode: ViewProduct, Filter: NewSkuSet("shirt-red")})
	shirt, ok = unfiltered.FindProduct("Shirt")
	require.True(t, ok)
	assert.Equal(t, SelectedAll, shirt.Selected)
	assert.Equal(t, ViewCounts{Contents: 2, Creators: 2, Products: 1}, unfiltered.Counts)

	all := DeriveViews(rows, headers, columns.DefaultFragments(), Query{Mode: ViewProduct})
	shirt, _ = all.FindProduct("Shirt")
	assert.Equal(t, SelectedNone, shirt.Selected)
	assert.Equal(t, ViewCounts{Contents: 4, Creators: 3, Products: 4}, all.Counts)
}

func TestParseViewMode(t *testing.T) {
	for in, want := range map[string]ViewMode{
		"video": ViewContent, "Content": ViewContent, "creator": ViewCreator,
		"sku": ViewProduct, "product": ViewProduct,
	} {
		got, err := ParseViewMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseViewMode("matrix")
	assert.Error(t, err)
}

func TestViews_MarkdownSections(t *testing.T) {
	rows, headers := sampleRows(t)
	views := DeriveViews(rows, headers, columns.DefaultFragments(),
		Query{Mode: ViewProduct, Filter: NewSkuSet("mug-white")})
	md := views.Markdown()

	for _, want := range []string{
		"[ATTRIBUTION SUMMARY]",
		"Orders: 6",
		"Rows: 2 (filtered from 7)",
		"[ACTIVE FILTER]",
		"- mug-white",
		"[BY PRODUCT]",
		"Pivots: 2 contents, 2 creators, 1 products",
		"| Mug ✓ | 2 | 9 | mug-white(9) | [v3](https://www.tiktok.com/@/video/v3)(5), [v2](https://www.tiktok.com/@/video/v2)(4) |",
	} {
		assert.Contains(t, md, want)
	}
	assert.False(t, strings.Contains(md, "Shirt"))
}

func TestViews_TruncateAndFind(t *testing.T) {
	rows, headers := sampleRows(t)
	views := DeriveViews(rows, headers, columns.DefaultFragments(), Query{Mode: ViewContent})
	require.Equal(t, 4, views.Len())

	views.Truncate(2)
	assert.Equal(t, 2, views.Len())

	p, ok := views.FindProduct("Hat, wool")
	require.True(t, ok)
	assert.Equal(t, []string{"hat-grey"}, p.VariantIDs())
	_, ok = views.FindProduct("hat")
	assert.False(t, ok)
}
