package catalog

import "sync"

// View is the state container behind the admin product list: the full
// product set, the current FilterSpec and the pagination position. Changing
// any filter field resets the page to 1 so a narrowed result set never leaves
// the user stranded on an empty page.
type View struct {
	mu       sync.RWMutex
	products []Product
	spec     FilterSpec
	page     int
	pageSize int
	cached   *Page
}

func NewView() *View {
	return &View{
		spec:     DefaultFilterSpec(),
		page:     1,
		pageSize: defaultPageSize,
	}
}

// SetProducts replaces the backing product set.
func (v *View) SetProducts(products []Product) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.products = append([]Product(nil), products...)
	v.cached = nil
}

// SetFilter replaces the whole FilterSpec and resets to page 1.
func (v *View) SetFilter(spec FilterSpec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.spec = spec
	v.page = 1
	v.cached = nil
}

// UpdateFilter mutates the FilterSpec in place and resets to page 1.
func (v *View) UpdateFilter(mutate func(*FilterSpec)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	mutate(&v.spec)
	v.page = 1
	v.cached = nil
}

// ResetFilter restores the default spec and resets to page 1.
func (v *View) ResetFilter() {
	v.SetFilter(DefaultFilterSpec())
}

func (v *View) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.page = page
	v.cached = nil
}

// SetPageSize switches the page size and returns to page 1.
func (v *View) SetPageSize(size int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pageSize = NormalizePageSize(size)
	v.page = 1
	v.cached = nil
}

func (v *View) Filter() FilterSpec {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.spec
}

func (v *View) CurrentPage() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page
}

// Visible returns the current page of the filtered and sorted list. The
// result is memoized until products, filter or pagination change.
func (v *View) Visible() Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cached != nil {
		return *v.cached
	}

	page := Apply(v.products, v.spec, v.page, v.pageSize)
	v.cached = &page
	return page
}
