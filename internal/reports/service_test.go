package reports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/records"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/jobs"
)

var fixedNow = time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)

type knownCases map[string]bool

func (k knownCases) Exists(_ context.Context, caseID string) bool { return k[caseID] }

type auditSpy struct{ logs []shared.AuditLog }

func (a *auditSpy) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type notifierSpy struct {
	notices []jobs.ReportNoticePayload
	err     error
}

func (n *notifierSpy) EnqueueReportNotice(_ context.Context, payload jobs.ReportNoticePayload) (*asynq.TaskInfo, error) {
	if n.err != nil {
		return nil, n.err
	}
	n.notices = append(n.notices, payload)
	return &asynq.TaskInfo{ID: "task-1", Type: jobs.TaskNotifyReport}, nil
}

func newService(t *testing.T, mode workflow.Mode) (*Service, *auditSpy, *notifierSpy) {
	t.Helper()
	spy := &auditSpy{}
	notifier := &notifierSpy{}
	repo := records.MustCollection(SeedReports(fixedNow))
	svc := NewService(repo, workflow.MustLoad(mode), knownCases{"CASE-2024-012": true}, spy).
		WithNotifier(notifier, nil).
		WithClock(func() time.Time { return fixedNow })
	return svc, spy, notifier
}

func forensic() context.Context {
	return shared.ContextWithIdentity(context.Background(), shared.Identity{
		UserID: "USR-004", Name: "Dr. Anil Menon", Roles: []shared.Role{shared.RoleForensic}, ActiveRole: shared.RoleForensic,
	})
}

func TestSeedIsNewestFirst(t *testing.T) {
	reports := SeedReports(fixedNow)
	require.Len(t, reports, 8)
	for i := 1; i < len(reports); i++ {
		assert.Less(t, reports[i].ID, reports[i-1].ID)
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc, spy, notifier := newService(t, workflow.ModeManual)

	r, err := svc.Create(forensic(), CreateInput{CaseID: "CASE-2024-012", EvidenceID: "EV-2024-010", Title: "Email header trace", Type: TypeDigital, Lab: "Cyber Forensic Lab"})
	require.NoError(t, err)
	assert.Equal(t, "RPT-2024-009", r.ID)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, "Dr. Anil Menon", r.Analyst)
	assert.Equal(t, fixedNow, r.SubmittedAt)
	require.Len(t, spy.logs, 1)
	assert.Equal(t, shared.EntityReport, spy.logs[0].Entity)
	assert.Empty(t, notifier.notices)

	_, err = svc.Create(forensic(), CreateInput{CaseID: "CASE-2024-404", EvidenceID: "EV-1", Title: "t", Type: TypeDNA, Lab: "l"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(forensic(), CreateInput{CaseID: "CASE-2024-012"})
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"evidence_id", "lab", "title", "type"}, verr.Fields)
}

func TestCompletionQueuesNotice(t *testing.T) {
	svc, spy, notifier := newService(t, workflow.ModeStrict)

	updated, err := svc.Update(forensic(), "RPT-2024-008", UpdateInput{
		Title: "Blood group and DNA profile", Type: TypeDNA, Status: StatusCompleted,
		Analyst: "Dr. Anil Menon", Lab: "State Forensic Lab", Findings: " Profile matches suspect ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Profile matches suspect", updated.Findings)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, jobs.ReportNoticePayload{ReportID: "RPT-2024-008", CaseID: "CASE-2024-011", Status: StatusCompleted, Analyst: "Dr. Anil Menon", Actor: "Dr. Anil Menon"}, notifier.notices[0])
	require.Len(t, spy.logs, 1)
	assert.Equal(t, "In Progress -> Completed", spy.logs[0].Details)

	_, err = svc.Update(forensic(), "RPT-2024-007", UpdateInput{Title: "t", Type: TypeDigital, Status: StatusApproved, Analyst: "a", Lab: "l"})
	assert.ErrorIs(t, err, workflow.ErrTransitionNotAllowed)
	assert.Len(t, notifier.notices, 1)
}

func TestNoticeFailureDoesNotFailUpdate(t *testing.T) {
	svc, _, notifier := newService(t, workflow.ModeManual)
	notifier.err = errors.New("redis down")

	updated, err := svc.Update(forensic(), "RPT-2024-005", UpdateInput{Title: "CCTV frame enhancement", Type: TypeDigital, Status: StatusApproved, Analyst: "Dr. Kavya Iyer", Lab: "Cyber Forensic Lab"})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)
}

func TestHandlerPermissions(t *testing.T) {
	svc, _, _ := newService(t, workflow.ModeManual)
	h := NewHandler(nil, svc, rbac.Middleware{Service: rbac.NewService()})

	serve := func(role shared.Role, method, target, body string) int {
		id := shared.Identity{UserID: "USR-X", Name: "Tester", Roles: []shared.Role{role}, ActiveRole: role}
		r := chi.NewRouter()
		r.Route("/reports", h.MountRoutes)
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		ctx := shared.ContextWithSession(shared.ContextWithIdentity(req.Context(), id), shared.NewSession())
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req.WithContext(ctx))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve(shared.RolePolice, http.MethodGet, "/reports/?status=Pending", ""))
	assert.Equal(t, http.StatusOK, serve(shared.RolePolice, http.MethodGet, "/reports/RPT-2024-001", ""))
	assert.Equal(t, http.StatusNotFound, serve(shared.RolePolice, http.MethodGet, "/reports/RPT-2024-404", ""))
	assert.Equal(t, http.StatusForbidden, serve(shared.RolePolice, http.MethodPost, "/reports/", `{}`))
	assert.Equal(t, http.StatusBadRequest, serve(shared.RoleForensic, http.MethodPost, "/reports/", `{}`))
	assert.Equal(t, http.StatusCreated, serve(shared.RoleForensic, http.MethodPost, "/reports/",
		`{"case_id":"CASE-2024-012","evidence_id":"EV-2024-010","title":"Malware sample","type":"Digital Forensics","lab":"Cyber Forensic Lab"}`))
}
