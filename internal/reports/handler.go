package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	listviewhttp "github.com/casetrail/casetrail/internal/listview/http"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/shared"
)

// Handler manages lab report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	list    *listviewhttp.Handler[Report]
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:  logger,
		service: service,
		list:    listviewhttp.NewHandler(logger, Definition(), service),
		rbac:    rbac,
	}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermReportsView))
		h.list.MountRoutes(r)
		r.Get("/{id}", h.getReport)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermReportsEdit))
		r.Post("/", h.createReport)
		r.Put("/{id}", h.updateReport)
	})
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) createReport(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Warn("create report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, report)
}

func (h *Handler) updateReport(w http.ResponseWriter, r *http.Request) {
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	report, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Warn("update report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
