package catalog

import (
	"sort"
	"strings"
)

// PageSizes are the selectable page sizes for the admin list.
var PageSizes = []int{10, 25, 50, 100}

const defaultPageSize = 10

// Page is one visible window of the filtered and sorted product list.
type Page struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
}

// NormalizePageSize falls back to the default when the requested size is not
// one of the allowed choices.
func NormalizePageSize(size int) int {
	for _, allowed := range PageSizes {
		if size == allowed {
			return size
		}
	}
	return defaultPageSize
}

// Apply runs the full pipeline: filter, stable sort, paginate. It is a pure
// function of its inputs and never mutates the given slice.
func Apply(products []Product, spec FilterSpec, page, pageSize int) Page {
	filtered := Filter(products, spec)
	Sort(filtered, spec.SortBy, spec.SortOrder)
	return Paginate(filtered, page, pageSize)
}

// Filter returns the products passing the spec, preserving input order.
func Filter(products []Product, spec FilterSpec) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if spec.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders products in place. The sort is stable: equal keys keep their
// relative input order under either direction.
func Sort(products []Product, by SortField, order SortOrder) {
	sort.SliceStable(products, func(i, j int) bool {
		c := compare(products[i], products[j], by)
		if order == SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b Product, by SortField) int {
	switch by {
	case SortByPrice:
		return compareFloat(a.Price, b.Price)
	case SortByStock:
		return compareInt(a.Stock, b.Stock)
	case SortByUpdatedAt:
		return compareInt(a.UpdatedAt.UnixMilli(), b.UpdatedAt.UnixMilli())
	case SortByCreatedAt:
		return compareInt(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli())
	case SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	default:
		return compareInt(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli())
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Paginate slices the list at [(page-1)*size, page*size), clamping the page
// into [1, totalPages].
func Paginate(items []Product, page, pageSize int) Page {
	pageSize = NormalizePageSize(pageSize)
	total := len(items)

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      append([]Product(nil), items[start:end]...),
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}
