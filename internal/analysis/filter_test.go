package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/orderlens/internal/columns"
)

func TestFilter_EmptySetIsIdentity(t *testing.T) {
	rows, headers := sampleRows(t)
	cols := resolved(headers)

	got := Filter(rows, NewSkuSet(), cols.Column(columns.SKU))
	assert.Equal(t, rows, got)

	unfiltered := Aggregate(rows, cols)
	assert.Equal(t, unfiltered, Aggregate(Filter(rows, nil, cols.Column(columns.SKU)), cols))
}

func TestFilter_UnsetSKUMatchesPlaceholder(t *testing.T) {
	rows, headers := sampleRows(t)
	cols := resolved(headers)

	got := Filter(rows, NewSkuSet(UnsetSKU), cols.Column(columns.SKU))
	if assert.Len(t, got, 1) {
		assert.Equal(t, "o5", cols.Value(got[0], columns.OrderID))
	}
}

func TestFilter_SupersetNeverShrinks(t *testing.T) {
	rows, headers := sampleRows(t)
	cols := resolved(headers)
	sku := cols.Column(columns.SKU)

	small := Filter(rows, NewSkuSet("shirt-red"), sku)
	large := Filter(rows, NewSkuSet("shirt-red", "mug-white"), sku)
	assert.Len(t, small, 2)
	assert.Len(t, large, 4)

	smallAgg := Aggregate(small, cols)
	largeAgg := Aggregate(large, cols)
	for _, c := range smallAgg.Creators {
		for _, l := range largeAgg.Creators {
			if l.ID == c.ID {
				assert.GreaterOrEqual(t, l.TotalQty, c.TotalQty)
			}
		}
	}
}

func TestFilter_SharedVariantAffectsBothProducts(t *testing.T) {
	rows, headers := loadRows(t,
		"o1,v1,a,Alpha,shared,1",
		"o2,v2,b,Beta,shared,2",
		"o3,v3,c,Gamma,own,4",
	)
	views := DeriveViews(rows, headers, columns.DefaultFragments(),
		Query{Filter: NewSkuSet("shared"), Mode: ViewProduct})
	assert.Len(t, views.Products, 2)
}

func TestSkuSet_Toggle(t *testing.T) {
	s := NewSkuSet()
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Has("a"))
	assert.False(t, s.Toggle("a"))
	assert.False(t, s.Has("a"))

	s = NewSkuSet("b", "a")
	assert.Equal(t, []string{"a", "b"}, s.Sorted())
	c := s.Clone()
	c.Toggle("a")
	assert.True(t, s.Has("a"), "clone must be independent")
}
