// Package listview implements the filter/paginate view model shared by every
// record list page. Search text, categorical filters and a date range narrow a
// collection, and the matches are cut into fixed-size pages.
package listview

import (
	"errors"
	"slices"
	"time"
)

const (
	// FilterSearch is the free-text filter name.
	FilterSearch = "search"
	// FilterDateRange is the relative date window filter name.
	FilterDateRange = "dateRange"
	// FilterAll is the neutral value for categorical filters.
	FilterAll = "all"
)

// DefaultPageSize applies when a Definition leaves PageSize unset.
const DefaultPageSize = 10

var (
	// ErrUnknownFilter reports a filter name the page does not declare.
	ErrUnknownFilter = errors.New("listview: unknown filter")
	// ErrInvalidPageSize reports a page size outside the allowed presets.
	ErrInvalidPageSize = errors.New("listview: invalid page size")
	// ErrInvalidDateRange reports an unsupported date range value.
	ErrInvalidDateRange = errors.New("listview: invalid date range")
)

// PresetPageSizes returns the sizes a user may pick on adjustable pages.
func PresetPageSizes() []int {
	return []int{5, 10, 20, 50}
}

// Field extracts one string attribute from a record.
type Field[T any] func(T) string

// Definition describes how a record type is searched, filtered and paged.
type Definition[T any] struct {
	// Name identifies the page, e.g. "cases".
	Name string
	// Search lists the fields matched by the free-text filter.
	Search []Field[T]
	// Categories maps filter names to the field compared for equality.
	Categories map[string]Field[T]
	// Timestamp enables the dateRange filter when set.
	Timestamp func(T) time.Time
	// PageSize is the initial page size.
	PageSize int
	// PageSizes lists the sizes ChangePageSize accepts. Empty means fixed.
	PageSizes []int
}

// FilterNames lists the filters recognised by the definition.
func (d Definition[T]) FilterNames() []string {
	names := []string{FilterSearch}
	for name := range d.Categories {
		names = append(names, name)
	}
	if d.Timestamp != nil {
		names = append(names, FilterDateRange)
	}
	slices.Sort(names)
	return names
}

func (d Definition[T]) knows(name string) bool {
	switch name {
	case FilterSearch:
		return true
	case FilterDateRange:
		return d.Timestamp != nil
	}
	_, ok := d.Categories[name]
	return ok
}

func (d Definition[T]) defaultPageSize() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return DefaultPageSize
}

func (d Definition[T]) allowsPageSize(n int) bool {
	if n <= 0 {
		return false
	}
	if n == d.defaultPageSize() {
		return true
	}
	return slices.Contains(d.PageSizes, n)
}

// neutral reports whether a filter value matches everything.
func neutral(value string) bool {
	return value == "" || value == FilterAll
}
