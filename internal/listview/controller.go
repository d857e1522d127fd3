package listview

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Option customises a Controller.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used by the dateRange filter.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// View is the filtered and paginated subset rendered for one page.
type View[T any] struct {
	Items      []T               `json:"items"`
	Filters    map[string]string `json:"filters"`
	Pagination Pagination        `json:"pagination"`
	PageSizes  []int             `json:"page_sizes,omitempty"`
}

// State is the serialisable part of a Controller, kept between requests.
type State struct {
	Filters  map[string]string `json:"filters,omitempty"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Controller derives views from a record collection. It never mutates the
// records it is given; owners swap the whole collection with SetRecords.
// A Controller is not safe for concurrent use.
type Controller[T any] struct {
	def      Definition[T]
	records  []T
	filters  map[string]string
	page     int
	pageSize int
	now      func() time.Time
}

// New builds a controller over records with neutral filters on page one.
func New[T any](def Definition[T], records []T, opts ...Option) *Controller[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		def:      def,
		records:  records,
		filters:  make(map[string]string),
		page:     1,
		pageSize: def.defaultPageSize(),
		now:      o.now,
	}
}

// Definition returns the page definition backing the controller.
func (c *Controller[T]) Definition() Definition[T] { return c.def }

// SetRecords replaces the underlying collection. The current page is clamped
// on the next ComputeVisible.
func (c *Controller[T]) SetRecords(records []T) {
	c.records = records
}

// SetFilter updates one filter criterion and resets the page to 1.
func (c *Controller[T]) SetFilter(name, value string) error {
	if !c.def.knows(name) {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	value = strings.TrimSpace(value)
	if name == FilterDateRange {
		if err := validDateRange(value); err != nil {
			return err
		}
	}
	if neutral(value) {
		delete(c.filters, name)
	} else {
		c.filters[name] = value
	}
	c.page = 1
	return nil
}

// ClearFilters resets every filter to its neutral value and the page to 1.
func (c *Controller[T]) ClearFilters() {
	clear(c.filters)
	c.page = 1
}

// GoToPage moves to page n, clamped into the valid range.
func (c *Controller[T]) GoToPage(n int) {
	total := TotalPages(len(c.Filtered()), c.pageSize)
	c.page = ClampPage(n, total)
}

// ChangePageSize sets the page size and resets the page to 1.
func (c *Controller[T]) ChangePageSize(n int) error {
	if !c.def.allowsPageSize(n) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	c.pageSize = n
	c.page = 1
	return nil
}

// Filtered returns every record matching the active filters, in collection
// order, without pagination.
func (c *Controller[T]) Filtered() []T {
	match := compile(c.def, c.filters, c.now())
	out := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// ComputeVisible filters, clamps the current page and slices out that page.
// Calling it twice without an intervening mutation yields the same view.
func (c *Controller[T]) ComputeVisible() View[T] {
	matches := c.Filtered()
	p := NewPagination(c.page, c.pageSize, len(matches))
	c.page = p.Page
	start, end := p.Offsets()
	items := make([]T, end-start)
	copy(items, matches[start:end])
	return View[T]{
		Items:      items,
		Filters:    c.Filters(),
		Pagination: p,
		PageSizes:  c.pageSizes(),
	}
}

// Filters returns a copy of the active, non-neutral filters.
func (c *Controller[T]) Filters() map[string]string {
	return maps.Clone(c.filters)
}

// Page returns the current page number.
func (c *Controller[T]) Page() int { return c.page }

// PageSize returns the current page size.
func (c *Controller[T]) PageSize() int { return c.pageSize }

// State captures filters, page and page size.
func (c *Controller[T]) State() State {
	return State{Filters: c.Filters(), Page: c.page, PageSize: c.pageSize}
}

// Restore applies a previously captured state. Entries that no longer fit
// the definition are dropped, so stale session data cannot break a page.
func (c *Controller[T]) Restore(s State) {
	clear(c.filters)
	for name, value := range s.Filters {
		value = strings.TrimSpace(value)
		if !c.def.knows(name) || neutral(value) {
			continue
		}
		if name == FilterDateRange && validDateRange(value) != nil {
			continue
		}
		c.filters[name] = value
	}
	c.pageSize = c.def.defaultPageSize()
	if c.def.allowsPageSize(s.PageSize) {
		c.pageSize = s.PageSize
	}
	c.page = 1
	if s.Page > 1 {
		c.page = s.Page
	}
}

func (c *Controller[T]) pageSizes() []int {
	if len(c.def.PageSizes) == 0 {
		return nil
	}
	sizes := make([]int, len(c.def.PageSizes))
	copy(sizes, c.def.PageSizes)
	return sizes
}
