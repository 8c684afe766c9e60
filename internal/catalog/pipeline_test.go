package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

func sampleProducts() []Product {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	prices := []float64{100, 50, 200, 50, 150}
	products := make([]Product, 0, len(prices))
	for i, price := range prices {
		products = append(products, Product{
			ID:        fmt.Sprintf("p%d", i+1),
			SKU:       fmt.Sprintf("SKU-%d", i+1),
			Name:      fmt.Sprintf("Product %d", i+1),
			Price:     price,
			Stock:     i * 3,
			IsActive:  i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * 2 * time.Hour),
			Category:  Category{ID: "cat-1", Name: "Drinks"},
		})
	}
	return products
}

func TestApplyPriceMinAscending(t *testing.T) {
	spec := DefaultFilterSpec()
	spec.PriceMin = floatPtr(60)
	spec.SortBy = SortByPrice
	spec.SortOrder = SortAsc

	page := Apply(sampleProducts(), spec, 1, 10)

	prices := make([]float64, 0, len(page.Items))
	for _, p := range page.Items {
		prices = append(prices, p.Price)
	}
	assert.Equal(t, []float64{100, 150, 200}, prices)
}

func TestApplyIsIdempotent(t *testing.T) {
	products := sampleProducts()
	spec := DefaultFilterSpec()
	spec.Search = "product"
	spec.SortBy = SortByPrice
	spec.SortOrder = SortDesc

	first := Apply(products, spec, 1, 10)
	second := Apply(products, spec, 1, 10)
	assert.Equal(t, first, second)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	original := append([]Product(nil), products...)

	spec := DefaultFilterSpec()
	spec.SortBy = SortByPrice
	spec.SortOrder = SortAsc
	Apply(products, spec, 1, 10)

	assert.Equal(t, original, products)
}

func TestPaginationCoversAllItemsExactlyOnce(t *testing.T) {
	products := make([]Product, 0, 137)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 137; i++ {
		products = append(products, Product{
			ID:        fmt.Sprintf("p%03d", i),
			Name:      fmt.Sprintf("Item %03d", i),
			Price:     float64(i % 17),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	spec := DefaultFilterSpec()
	spec.SortBy = SortByPrice
	spec.SortOrder = SortAsc

	for _, size := range PageSizes {
		filtered := Filter(products, spec)
		Sort(filtered, spec.SortBy, spec.SortOrder)

		var concatenated []Product
		first := Apply(products, spec, 1, size)
		require.Positive(t, first.TotalPages)
		for page := 1; page <= first.TotalPages; page++ {
			concatenated = append(concatenated, Apply(products, spec, page, size).Items...)
		}

		assert.Equal(t, filtered, concatenated, "pageSize=%d", size)
	}
}

func TestSortAdjacentPairsOrdered(t *testing.T) {
	spec := DefaultFilterSpec()
	spec.SortBy = SortByPrice
	spec.SortOrder = SortAsc

	page := Apply(sampleProducts(), spec, 1, 100)
	for i := 1; i < len(page.Items); i++ {
		assert.LessOrEqual(t, page.Items[i-1].Price, page.Items[i].Price)
	}
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	products := sampleProducts()

	spec := DefaultFilterSpec()
	spec.SortBy = SortByPrice
	spec.SortOrder = SortAsc
	page := Apply(products, spec, 1, 100)

	// p2 and p4 share price 50; input order must survive in both directions.
	require.Len(t, page.Items, 5)
	assert.Equal(t, "p2", page.Items[0].ID)
	assert.Equal(t, "p4", page.Items[1].ID)

	spec.SortOrder = SortDesc
	page = Apply(products, spec, 1, 100)
	assert.Equal(t, "p2", page.Items[3].ID)
	assert.Equal(t, "p4", page.Items[4].ID)
}

func TestZeroMinBoundIsARealConstraint(t *testing.T) {
	products := sampleProducts()

	unconstrained := DefaultFilterSpec()
	zeroMin := DefaultFilterSpec()
	zeroMin.PriceMin = floatPtr(0)
	zeroStock := DefaultFilterSpec()
	zeroStock.StockMax = intPtr(0)

	assert.Len(t, Filter(products, unconstrained), 5)
	assert.Len(t, Filter(products, zeroMin), 5)
	// Only the first product has zero stock.
	assert.Len(t, Filter(products, zeroStock), 1)
}

func TestTriStateBooleanFilters(t *testing.T) {
	products := sampleProducts()

	spec := DefaultFilterSpec()
	assert.Len(t, Filter(products, spec), 5)

	spec.IsActive = boolPtr(true)
	assert.Len(t, Filter(products, spec), 3)

	spec.IsActive = boolPtr(false)
	assert.Len(t, Filter(products, spec), 2)
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	products := []Product{
		{ID: "a", Name: "Himalayan Tea", SKU: "TEA-001"},
		{ID: "b", Name: "Coffee", ShortDescription: "dark roast beans"},
		{ID: "c", Name: "Socks", Category: Category{Name: "Clothing"}},
	}

	cases := map[string][]string{
		"tea":      {"a"},
		"TEA-001":  {"a"},
		"roast":    {"b"},
		"clothing": {"c"},
		"":         {"a", "b", "c"},
		"missing":  {},
	}

	for search, want := range cases {
		spec := DefaultFilterSpec()
		spec.Search = search
		got := make([]string, 0)
		for _, p := range Filter(products, spec) {
			got = append(got, p.ID)
		}
		assert.Equal(t, want, got, "search=%q", search)
	}
}

func TestDateRangeFilter(t *testing.T) {
	products := sampleProducts()
	from := products[2].CreatedAt

	spec := DefaultFilterSpec()
	spec.CreatedFrom = &from
	assert.Len(t, Filter(products, spec), 3)

	to := products[2].CreatedAt
	spec = DefaultFilterSpec()
	spec.CreatedTo = &to
	assert.Len(t, Filter(products, spec), 3)
}

func TestPaginateClampsPageAndSize(t *testing.T) {
	products := sampleProducts()

	page := Paginate(products, 99, 10)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 5)

	page = Paginate(products, 0, 7)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)

	page = Paginate(nil, 1, 10)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Items)
}
