package transfers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	listviewhttp "github.com/casetrail/casetrail/internal/listview/http"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/shared"
)

// Handler manages custody transfer endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	list    *listviewhttp.Handler[Transfer]
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

// MountRoutes registers transfer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermTransfersView))
		h.list.MountRoutes(r)
		r.Get("/{id}", h.getTransfer)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermTransfersEdit))
		r.Post("/", h.createTransfer)
		r.Put("/{id}", h.updateTransfer)
	})
}

func (h *Handler) getTransfer(w http.ResponseWriter, r *http.Request) {
	transfer, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, transfer)
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	transfer, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Warn("create transfer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, transfer)
}

func (h *Handler) updateTransfer(w http.ResponseWriter, r *http.Request) {
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	transfer, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.logger.Warn("update transfer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, transfer)
}
