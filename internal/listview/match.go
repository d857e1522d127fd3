package listview

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DateRange values accepted by the dateRange filter.
const (
	RangeToday   = "today"
	RangeWeek    = "7d"
	RangeMonth   = "30d"
	RangeQuarter = "90d"
	RangeYear    = "year"
)

// DateRanges lists the non-neutral dateRange values.
func DateRanges() []string {
	return []string{RangeToday, RangeWeek, RangeMonth, RangeQuarter, RangeYear}
}

func validDateRange(value string) error {
	if neutral(value) {
		return nil
	}
	for _, r := range DateRanges() {
		if value == r {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidDateRange, value)
}

// rangeStart returns the earliest timestamp included by the range.
func rangeStart(value string, now time.Time) time.Time {
	switch value {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, 0, -30)
	case RangeQuarter:
		return now.AddDate(0, 0, -90)
	case RangeYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

type predicate[T any] func(T) bool

// compile turns the active filters into one AND-ed predicate. Neutral filters
// contribute nothing.
func compile[T any](def Definition[T], filters map[string]string, now time.Time) predicate[T] {
	var preds []predicate[T]

	if needle := strings.TrimSpace(filters[FilterSearch]); !neutral(needle) {
		// cases.Caser keeps state, so each compiled predicate gets its own.
		fold := cases.Fold()
		needle = fold.String(needle)
		fields := def.Search
		preds = append(preds, func(rec T) bool {
			for _, field := range fields {
				if strings.Contains(fold.String(field(rec)), needle) {
					return true
				}
			}
			return false
		})
	}

	for name, field := range def.Categories {
		want := filters[name]
		if neutral(want) {
			continue
		}
		field := field
		preds = append(preds, func(rec T) bool {
			return strings.EqualFold(strings.TrimSpace(field(rec)), want)
		})
	}

	if def.Timestamp != nil {
		if r := filters[FilterDateRange]; !neutral(r) {
			start := rangeStart(r, now)
			ts := def.Timestamp
			preds = append(preds, func(rec T) bool {
				return !ts(rec).Before(start)
			})
		}
	}

	return func(rec T) bool {
		for _, p := range preds {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}
