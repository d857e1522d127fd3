package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/casetrail/casetrail/internal/auth"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/records"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/users"
	_ "github.com/casetrail/casetrail/internal/testing/guard"
)

const demoPassword = "casetrail-demo"

type auditSpy struct{ logs []shared.AuditLog }

func (a *auditSpy) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type client struct {
	t       *testing.T
	router  http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T) (*client, *auditSpy) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessions := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)

	seed, err := users.SeedUsers(time.Now(), demoPassword, bcrypt.MinCost)
	require.NoError(t, err)
	spy := &auditSpy{}
	directory := users.NewService(records.MustCollection(seed), spy)
	service := auth.NewService(directory, spy)
	handler := auth.NewHandler(nil, service, rbac.NewService(), shared.NewCSRFManager("csrfsecret"))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			buffered := httptest.NewRecorder()
			next.ServeHTTP(buffered, req.WithContext(ctx))
			if err := sessions.Commit(ctx, w, sess); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			for k, v := range buffered.Header() {
				w.Header()[k] = v
			}
			w.WriteHeader(buffered.Code)
			_, _ = w.Write(buffered.Body.Bytes())
		})
	})
	r.Use(service.Middleware)
	r.Route("/auth", handler.MountRoutes)
	return &client{t: t, router: r}, spy
}

func (c *client) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return rec
}

type sessionBody struct {
	Identity    shared.Identity `json:"identity"`
	Permissions []string        `json:"permissions"`
	CSRFToken   string          `json:"csrf_token"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var body sessionBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginInvalidCredentials(t *testing.T) {
	c, spy := newClient(t)

	rec := c.do(http.MethodPost, "/auth/login", `{"email":"ravi.kumar@police.gov.in","password":"wrongpass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	rec = c.do(http.MethodPost, "/auth/login", `{"email":"suresh.pillai@police.gov.in","password":"`+demoPassword+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", "").Code)
	assert.Empty(t, spy.logs)
}

func TestLoginSwitchLogout(t *testing.T) {
	c, spy := newClient(t)

	rec := c.do(http.MethodPost, "/auth/login", `{"email":"ravi.kumar@police.gov.in","password":"`+demoPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "USR-001", body.Identity.UserID)
	assert.Equal(t, shared.RolePolice, body.Identity.ActiveRole)
	assert.Contains(t, body.Permissions, shared.PermCasesEdit)
	assert.NotEmpty(t, body.CSRFToken)

	rec = c.do(http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Insp. Ravi Kumar", decode(t, rec).Identity.Name)

	rec = c.do(http.MethodPost, "/auth/switch", `{"role":"forensic"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, shared.RoleForensic, body.Identity.ActiveRole)
	assert.Contains(t, body.Permissions, shared.PermReportsEdit)
	assert.NotContains(t, body.Permissions, shared.PermCasesEdit)

	rec = c.do(http.MethodGet, "/auth/me", "")
	assert.Equal(t, shared.RoleForensic, decode(t, rec).Identity.ActiveRole)

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/auth/switch", `{"role":"Judiciary"}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/switch", `{"role":"Clerk"}`).Code)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/auth/logout", "").Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", "").Code)

	require.Len(t, spy.logs, 3)
	assert.Equal(t, shared.ActionLogin, spy.logs[0].Action)
	assert.Equal(t, "Police -> Forensic", spy.logs[1].Details)
	assert.Equal(t, shared.ActionLogout, spy.logs[2].Action)
	assert.Equal(t, shared.RoleForensic, spy.logs[2].Role)
}

func TestCSRFTokenIsStable(t *testing.T) {
	c, _ := newClient(t)
	first := c.do(http.MethodGet, "/auth/csrf", "")
	require.Equal(t, http.StatusOK, first.Code)
	second := c.do(http.MethodGet, "/auth/csrf", "")
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestLoginHonoursCancellation(t *testing.T) {
	seed, err := users.SeedUsers(time.Now(), demoPassword, bcrypt.MinCost)
	require.NoError(t, err)
	service := auth.NewService(users.NewService(records.MustCollection(seed), nil), nil).WithLatency(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.Login(ctx, shared.NewSession(), "ravi.kumar@police.gov.in", demoPassword)
	assert.ErrorIs(t, err, context.Canceled)
}
