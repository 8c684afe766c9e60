package catalog

import (
	"strings"
	"time"
)

type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByStock     SortField = "stock"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterSpec holds the user-selected search, filter and sort criteria for the
// admin product list. Nil pointers mean "no constraint"; zero is a real
// bound, so a minimum price of 0 excludes nothing but is still a deliberate
// choice rather than an unset field.
type FilterSpec struct {
	Search      string
	CategoryID  string
	IsActive    *bool
	IsFeatured  *bool
	IsDigital   *bool
	PriceMin    *float64
	PriceMax    *float64
	StockMin    *int
	StockMax    *int
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      SortField
	SortOrder   SortOrder
}

// DefaultFilterSpec matches everything, newest first.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}
}

// Matches reports whether the product passes every active predicate.
// Predicates combine with logical AND; unset fields match everything.
func (f FilterSpec) Matches(p Product) bool {
	if !matchesSearch(f.Search, p) {
		return false
	}
	if f.CategoryID != "" && f.CategoryID != "all" && p.Category.ID != f.CategoryID {
		return false
	}
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	if f.IsFeatured != nil && p.IsFeatured != *f.IsFeatured {
		return false
	}
	if f.IsDigital != nil && p.IsDigital != *f.IsDigital {
		return false
	}
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.StockMin != nil && p.Stock < *f.StockMin {
		return false
	}
	if f.StockMax != nil && p.Stock > *f.StockMax {
		return false
	}
	if f.CreatedFrom != nil && p.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && p.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func matchesSearch(search string, p Product) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}

	haystacks := []string{
		p.Name,
		p.SKU,
		p.Category.Display(),
		p.ShortDescription,
	}
	for _, value := range haystacks {
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}
