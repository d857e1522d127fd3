package cases

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/evidence"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/workflow"
)

type evidenceStub map[string][]evidence.Item

func (e evidenceStub) ForCase(_ context.Context, caseID string) []evidence.Item { return e[caseID] }

func newRouter(t *testing.T, role shared.Role) http.Handler {
	t.Helper()
	svc, _ := newService(t, workflow.ModeManual)
	ev := evidenceStub{"CASE-2024-002": {{ID: "EV-2024-002", CaseID: "CASE-2024-002", Name: "Country-made pistol"}}}
	h := NewHandler(nil, svc, ev, rbac.Middleware{Service: rbac.NewService()})

	id := shared.Identity{UserID: "USR-X", Name: "Tester", Roles: []shared.Role{role}, ActiveRole: role}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.ContextWithIdentity(req.Context(), id)
			ctx = shared.ContextWithSession(ctx, shared.NewSession())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/cases", h.MountRoutes)
	return r
}

func send(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetCaseIncludesEvidence(t *testing.T) {
	router := newRouter(t, shared.RolePolice)
	rec := send(router, http.MethodGet, "/cases/CASE-2024-002", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "FIR-2024-0098", detail.FIRNumber)
	require.Len(t, detail.Evidence, 1)
	assert.Equal(t, "EV-2024-002", detail.Evidence[0].ID)
	assert.NotContains(t, detail.NextStatuses, StatusActive)

	rec = send(router, http.MethodGet, "/cases/CASE-2024-001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"evidence":[]`)
}

func TestCreateCaseOverHTTP(t *testing.T) {
	router := newRouter(t, shared.RolePolice)
	rec := send(router, http.MethodPost, "/cases/", `{"title":"Pickpocketing","type":"Theft","priority":"Low","station":"Market PS","location":"Old Market"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = send(router, http.MethodPost, "/cases/", `{"title":"","type":"Theft"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), httpx.RequiredFieldsMessage)

	rec = send(router, http.MethodGet, "/cases/?status=Active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":8`)
}

func TestForensicCannotEditCases(t *testing.T) {
	router := newRouter(t, shared.RoleForensic)
	rec := send(router, http.MethodPost, "/cases/CASE-2024-001/status", `{"status":"Active"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(router, http.MethodGet, "/cases/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangeStatusOverHTTP(t *testing.T) {
	router := newRouter(t, shared.RoleJudiciary)
	rec := send(router, http.MethodPost, "/cases/CASE-2024-003/status", `{"status":"Approved","note":"evidence sufficient"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var c Case
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, StatusApproved, c.Status)

	rec = send(router, http.MethodPost, "/cases/CASE-2024-404/status", `{"status":"Approved"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
