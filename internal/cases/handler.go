package cases

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casetrail/casetrail/internal/evidence"
	listviewhttp "github.com/casetrail/casetrail/internal/listview/http"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/shared"
)

// EvidenceSource lists the evidence attached to a case.
type EvidenceSource interface {
	ForCase(ctx context.Context, caseID string) []evidence.Item
}

// Handler manages case endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	evidence EvidenceSource
	list     *listviewhttp.Handler[Case]
	rbac     rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, evidence EvidenceSource, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		evidence: evidence,
		list:     listviewhttp.NewHandler(logger, Definition(), service),
		rbac:     rbac,
	}
}

// MountRoutes registers case routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermCasesView))
		h.list.MountRoutes(r)
		r.Get("/{id}", h.getCase)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermCasesEdit))
		r.Post("/", h.createCase)
		r.Put("/{id}", h.updateCase)
		r.Post("/{id}/status", h.changeStatus)
	})
}

func (h *Handler) getCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	detail := Detail{Case: c, Evidence: []evidence.Item{}, NextStatuses: h.service.NextStatuses(r.Context(), c)}
	if h.evidence != nil {
		if items := h.evidence.ForCase(r.Context(), c.ID); items != nil {
			detail.Evidence = items
		}
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) createCase(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Warn("create case", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) updateCase(w http.ResponseWriter, r *http.Request) {
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Warn("update case", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	var input StatusInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Warn("change case status", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
