package listview

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID       string
	Title    string
	FIR      string
	Status   string
	Priority string
	At       time.Time
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testDefinition(pageSize int) Definition[record] {
	return Definition[record]{
		Name: "records",
		Search: []Field[record]{
			func(r record) string { return r.ID },
			func(r record) string { return r.Title },
			func(r record) string { return r.FIR },
		},
		Categories: map[string]Field[record]{
			"status":   func(r record) string { return r.Status },
			"priority": func(r record) string { return r.Priority },
		},
		Timestamp: func(r record) time.Time { return r.At },
		PageSize:  pageSize,
		PageSizes: PresetPageSizes(),
	}
}

// twelveCases returns 12 records, 7 of them Active.
func twelveCases() []record {
	statuses := []string{"Active", "Closed", "Active", "Active", "Approved", "Active", "Closed", "Active", "Active", "Transferred", "Active", "Closed"}
	priorities := []string{"High", "Low", "Medium"}
	out := make([]record, len(statuses))
	for i, status := range statuses {
		out[i] = record{
			ID:       fmt.Sprintf("CASE-2024-%03d", i+1),
			Title:    fmt.Sprintf("Case number %d", i+1),
			FIR:      fmt.Sprintf("FIR/%d/2024", 100+i),
			Status:   status,
			Priority: priorities[i%len(priorities)],
			At:       testNow.AddDate(0, 0, -i*10),
		}
	}
	return out
}

func newTestController(records []record, pageSize int) *Controller[record] {
	return New(testDefinition(pageSize), records, WithClock(func() time.Time { return testNow }))
}

func ids(records []record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestStatusFilterScenario(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	require.NoError(t, c.SetFilter("status", "Active"))

	view := c.ComputeVisible()
	assert.Equal(t, 7, view.Pagination.Total)
	assert.Equal(t, 2, view.Pagination.TotalPages)
	assert.Equal(t, []string{"CASE-2024-001", "CASE-2024-003", "CASE-2024-004", "CASE-2024-006", "CASE-2024-008"}, ids(view.Items))

	c.GoToPage(2)
	view = c.ComputeVisible()
	assert.Equal(t, []string{"CASE-2024-009", "CASE-2024-011"}, ids(view.Items))

	c.GoToPage(3)
	assert.Equal(t, 2, c.Page())
}

func TestComputeVisibleIsIdempotent(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	require.NoError(t, c.SetFilter(FilterSearch, "case"))
	c.GoToPage(2)

	first := c.ComputeVisible()
	second := c.ComputeVisible()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("views differ (-first +second):\n%s", diff)
	}
}

func TestNeutralFiltersReturnFullCollection(t *testing.T) {
	records := twelveCases()
	c := newTestController(records, 50)
	require.NoError(t, c.SetFilter("status", "all"))
	require.NoError(t, c.SetFilter("priority", ""))
	require.NoError(t, c.SetFilter(FilterSearch, "  "))
	require.NoError(t, c.SetFilter(FilterDateRange, FilterAll))

	view := c.ComputeVisible()
	assert.Equal(t, ids(records), ids(view.Items))
	assert.Empty(t, view.Filters)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	records := twelveCases()
	c := newTestController(records, 50)
	require.NoError(t, c.SetFilter("status", "active"))
	require.NoError(t, c.SetFilter("priority", "High"))
	require.NoError(t, c.SetFilter(FilterDateRange, RangeMonth))

	got := c.Filtered()
	want := []record{}
	start := testNow.AddDate(0, 0, -30)
	for _, r := range records {
		if r.Status == "Active" && r.Priority == "High" && !r.At.Before(start) {
			want = append(want, r)
		}
	}
	if diff := cmp.Diff(ids(want), ids(got)); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
	for _, r := range got {
		assert.Equal(t, "Active", r.Status)
		assert.Equal(t, "High", r.Priority)
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	c := newTestController(twelveCases(), 10)

	require.NoError(t, c.SetFilter(FilterSearch, "fir/105"))
	assert.Equal(t, []string{"CASE-2024-006"}, ids(c.Filtered()))

	require.NoError(t, c.SetFilter(FilterSearch, "case-2024-01"))
	assert.Equal(t, []string{"CASE-2024-010", "CASE-2024-011", "CASE-2024-012"}, ids(c.Filtered()))

	require.NoError(t, c.SetFilter(FilterSearch, "NUMBER 12"))
	assert.Equal(t, []string{"CASE-2024-012"}, ids(c.Filtered()))
}

func TestPagesConcatenateToFilteredSequence(t *testing.T) {
	for _, size := range PresetPageSizes() {
		c := newTestController(twelveCases(), 5)
		require.NoError(t, c.ChangePageSize(size))
		require.NoError(t, c.SetFilter("priority", "Medium"))
		filtered := c.Filtered()

		view := c.ComputeVisible()
		var all []record
		for page := 1; page <= view.Pagination.TotalPages; page++ {
			c.GoToPage(page)
			all = append(all, c.ComputeVisible().Items...)
		}
		if diff := cmp.Diff(ids(filtered), ids(all)); diff != "" {
			t.Fatalf("size %d: pages do not reproduce filter (-want +got):\n%s", size, diff)
		}
	}
}

func TestGoToPageClamps(t *testing.T) {
	c := newTestController(twelveCases(), 5)

	c.GoToPage(0)
	assert.Equal(t, 1, c.Page())
	c.GoToPage(-4)
	assert.Equal(t, 1, c.Page())
	c.GoToPage(99)
	assert.Equal(t, 3, c.Page())
	assert.Len(t, c.ComputeVisible().Items, 2)
}

func TestSetFilterResetsPage(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	c.GoToPage(2)
	require.Equal(t, 2, c.Page())

	// Page 2 would still be valid for the new filter.
	require.NoError(t, c.SetFilter("status", "Active"))
	assert.Equal(t, 1, c.Page())
}

func TestChangePageSize(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	c.GoToPage(3)

	require.NoError(t, c.ChangePageSize(10))
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 10, c.PageSize())

	err := c.ChangePageSize(7)
	assert.True(t, errors.Is(err, ErrInvalidPageSize))
	assert.ErrorIs(t, c.ChangePageSize(0), ErrInvalidPageSize)
	assert.Equal(t, 10, c.PageSize())
}

func TestClearFilters(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	require.NoError(t, c.SetFilter("status", "Closed"))
	require.NoError(t, c.SetFilter(FilterSearch, "case"))
	c.GoToPage(2)

	c.ClearFilters()
	assert.Empty(t, c.Filters())
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 12, c.ComputeVisible().Pagination.Total)
}

func TestUnknownFilterAndInvalidRange(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	assert.ErrorIs(t, c.SetFilter("colour", "red"), ErrUnknownFilter)
	assert.ErrorIs(t, c.SetFilter(FilterDateRange, "fortnight"), ErrInvalidDateRange)

	noDates := testDefinition(5)
	noDates.Timestamp = nil
	c = New(noDates, twelveCases())
	assert.ErrorIs(t, c.SetFilter(FilterDateRange, RangeWeek), ErrUnknownFilter)
}

func TestEmptyCollectionHasOnePage(t *testing.T) {
	c := newTestController(nil, 5)
	c.GoToPage(4)
	view := c.ComputeVisible()
	assert.Equal(t, 1, view.Pagination.Page)
	assert.Equal(t, 1, view.Pagination.TotalPages)
	assert.Empty(t, view.Items)
	assert.NotNil(t, view.Items)
}

func TestSetRecordsClampsOnNextView(t *testing.T) {
	records := twelveCases()
	c := newTestController(records, 5)
	c.GoToPage(3)

	c.SetRecords(records[:4])
	view := c.ComputeVisible()
	assert.Equal(t, 1, view.Pagination.Page)
	assert.Len(t, view.Items, 4)
}

func TestControllerNeverMutatesRecords(t *testing.T) {
	records := twelveCases()
	before := ids(records)
	c := newTestController(records, 5)
	require.NoError(t, c.SetFilter("status", "Active"))
	view := c.ComputeVisible()
	view.Items[0].ID = "changed"

	assert.Equal(t, before, ids(records))
}

func TestStateRoundTrip(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	require.NoError(t, c.SetFilter("status", "Active"))
	require.NoError(t, c.ChangePageSize(5))
	c.GoToPage(2)
	state := c.State()

	restored := newTestController(twelveCases(), 5)
	restored.Restore(state)
	if diff := cmp.Diff(c.ComputeVisible(), restored.ComputeVisible()); diff != "" {
		t.Fatalf("restored view differs:\n%s", diff)
	}
}

func TestRestoreDropsStaleEntries(t *testing.T) {
	c := newTestController(twelveCases(), 5)
	c.Restore(State{
		Filters:  map[string]string{"colour": "red", FilterDateRange: "fortnight", "status": "Closed"},
		Page:     -3,
		PageSize: 7,
	})
	assert.Equal(t, map[string]string{"status": "Closed"}, c.Filters())
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 5, c.PageSize())
}
