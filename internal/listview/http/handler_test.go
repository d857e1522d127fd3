package listviewhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/listview"
	"github.com/casetrail/casetrail/internal/shared"
)

type row struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type staticSource []row

func (s staticSource) Records(context.Context) []row { return s }

func rows() staticSource {
	out := make(staticSource, 0, 12)
	for i := 1; i <= 12; i++ {
		status := "Closed"
		if i <= 7 {
			status = "Active"
		}
		out = append(out, row{ID: fmt.Sprintf("CASE-%03d", i), Status: status})
	}
	return out
}

func definition() listview.Definition[row] {
	return listview.Definition[row]{
		Name:       "cases",
		Search:     []listview.Field[row]{func(r row) string { return r.ID }},
		Categories: map[string]listview.Field[row]{"status": func(r row) string { return r.Status }},
		PageSize:   5,
		PageSizes:  listview.PresetPageSizes(),
	}
}

type fixture struct {
	router http.Handler
	sess   *shared.Session
}

func newFixture() fixture {
	sess := shared.NewSession()
	h := NewHandler(nil, definition(), rows())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/cases", h.MountRoutes)
	return fixture{router: r, sess: sess}
}

func (f fixture) do(t *testing.T, method, target, body string) (int, listview.View[row]) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	var view listview.View[row]
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	}
	return rec.Code, view
}

func TestStatusFilterPersistsAcrossRequests(t *testing.T) {
	f := newFixture()

	code, view := f.do(t, http.MethodPost, "/cases/view/filter", `{"name":"status","value":"Active"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 7, view.Pagination.Total)
	assert.Equal(t, 2, view.Pagination.TotalPages)
	assert.Len(t, view.Items, 5)

	code, view = f.do(t, http.MethodPost, "/cases/view/page", `{"page":3}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, view.Pagination.Page)
	assert.Equal(t, []row{{"CASE-006", "Active"}, {"CASE-007", "Active"}}, view.Items)

	code, view = f.do(t, http.MethodGet, "/cases/", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"status": "Active"}, view.Filters)
	assert.Equal(t, 2, view.Pagination.Page)

	var state listview.State
	require.True(t, f.sess.GetJSON(shared.ViewKey("cases"), &state))
	assert.Equal(t, 2, state.Page)
}

func TestQueryOverrides(t *testing.T) {
	f := newFixture()

	code, view := f.do(t, http.MethodGet, "/cases/?status=closed&page_size=10&page=9", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, view.Pagination.Total)
	assert.Equal(t, 10, view.Pagination.PerPage)
	assert.Equal(t, 1, view.Pagination.Page)

	code, view = f.do(t, http.MethodGet, "/cases/?q=case-01", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []row{{"CASE-010", "Closed"}, {"CASE-011", "Closed"}, {"CASE-012", "Closed"}}, view.Items)
}

func TestInvalidViewChangesAreRejected(t *testing.T) {
	f := newFixture()

	code, _ := f.do(t, http.MethodPost, "/cases/view/filter", `{"name":"colour","value":"red"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/cases/view/page-size", `{"page_size":7}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodGet, "/cases/?page=two", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodPost, "/cases/view/filter", `{"value":"Active"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestClearResetsView(t *testing.T) {
	f := newFixture()

	f.do(t, http.MethodPost, "/cases/view/filter", `{"name":"status","value":"Active"}`)
	code, view := f.do(t, http.MethodPost, "/cases/view/clear", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, view.Filters)
	assert.Equal(t, 12, view.Pagination.Total)
	assert.Equal(t, 1, view.Pagination.Page)
}

func TestFilteredIgnoresPagination(t *testing.T) {
	sess := shared.NewSession()
	require.NoError(t, sess.SetJSON(shared.ViewKey("cases"), listview.State{
		Filters:  map[string]string{"status": "Active"},
		Page:     2,
		PageSize: 5,
	}))
	h := NewHandler(nil, definition(), rows())
	got := h.Filtered(shared.ContextWithSession(context.Background(), sess))
	assert.Len(t, got, 7)
}
