package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewFilterChangeResetsPage(t *testing.T) {
	v := NewView()
	v.SetProducts(sampleProducts())
	v.SetPageSize(10)
	v.SetPage(2)
	assert.Equal(t, 2, v.CurrentPage())

	v.UpdateFilter(func(spec *FilterSpec) {
		spec.Search = "product"
	})
	assert.Equal(t, 1, v.CurrentPage())

	v.SetPage(3)
	v.SetFilter(DefaultFilterSpec())
	assert.Equal(t, 1, v.CurrentPage())

	v.SetPage(3)
	v.ResetFilter()
	assert.Equal(t, 1, v.CurrentPage())
}

func TestViewPageSizeChangeResetsPage(t *testing.T) {
	v := NewView()
	v.SetProducts(sampleProducts())
	v.SetPage(2)

	v.SetPageSize(25)
	assert.Equal(t, 1, v.CurrentPage())
}

func TestViewVisibleRecomputesAfterMutation(t *testing.T) {
	v := NewView()
	v.SetProducts(sampleProducts())

	all := v.Visible()
	assert.Equal(t, 5, all.Total)

	v.UpdateFilter(func(spec *FilterSpec) {
		spec.PriceMin = floatPtr(60)
	})
	narrowed := v.Visible()
	assert.Equal(t, 3, narrowed.Total)

	// Memoized result is returned while inputs are unchanged.
	assert.Equal(t, narrowed, v.Visible())

	v.SetProducts(nil)
	assert.Equal(t, 0, v.Visible().Total)
}

func TestViewRejectsInvalidPageSize(t *testing.T) {
	v := NewView()
	v.SetPageSize(33)
	v.SetProducts(sampleProducts())
	assert.Equal(t, 10, v.Visible().PageSize)
}
