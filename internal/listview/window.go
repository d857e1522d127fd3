package listview

// WindowThreshold is the page count above which the window collapses into
// ellipses.
const WindowThreshold = 5

// PageItem is one slot of a pagination control.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// PageWindow lays out the page links for a pagination control. Up to
// WindowThreshold pages are all shown. Beyond that the first and last page
// stay visible around a window centred on current, with ellipses marking the
// gaps; an ellipsis disappears when current is close to that end.
func PageWindow(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	current = ClampPage(current, total)

	page := func(n int) PageItem { return PageItem{Number: n, Current: n == current} }
	gap := PageItem{Ellipsis: true}

	if total <= WindowThreshold {
		items := make([]PageItem, 0, total)
		for n := 1; n <= total; n++ {
			items = append(items, page(n))
		}
		return items
	}

	switch {
	case current <= 3:
		return []PageItem{page(1), page(2), page(3), page(4), gap, page(total)}
	case current >= total-2:
		return []PageItem{page(1), gap, page(total - 3), page(total - 2), page(total - 1), page(total)}
	default:
		return []PageItem{page(1), gap, page(current - 1), page(current), page(current + 1), gap, page(total)}
	}
}
