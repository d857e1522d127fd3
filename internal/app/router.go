package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/casetrail/casetrail/internal/observability"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Pages          *Pages
	Handlers       Handlers
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with CaseTrail defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	var identity func(http.Handler) http.Handler
	if params.Pages != nil {
		identity = params.Pages.Auth.Middleware
	}
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
		Identity:       identity,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := params.Handlers
	if h.Auth != nil {
		r.Route("/auth", h.Auth.MountRoutes)
	}
	if h.Dashboard != nil {
		r.Route("/dashboard", h.Dashboard.MountRoutes)
	}
	if h.Cases != nil {
		r.Route("/cases", h.Cases.MountRoutes)
	}
	if h.Evidence != nil {
		r.Route("/evidence", h.Evidence.MountRoutes)
	}
	if h.Reports != nil {
		r.Route("/reports", h.Reports.MountRoutes)
	}
	if h.Transfers != nil {
		r.Route("/transfers", h.Transfers.MountRoutes)
	}
	if h.Users != nil {
		r.Route("/users", h.Users.MountRoutes)
	}
	if h.Audit != nil {
		r.Route("/audit", h.Audit.MountRoutes)
	}
	if h.Permissions != nil {
		r.Route("/permissions", h.Permissions.MountRoutes)
	}
	if h.Jobs != nil {
		r.Route("/jobs", h.Jobs.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, httpx.ErrNotFound)
	})
	return r
}
