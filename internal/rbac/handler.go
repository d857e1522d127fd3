package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
)

// PermissionsHandler lists the role table.
type PermissionsHandler struct {
	service *Service
	rbac    Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(service *Service, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{service: service, rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermUsersView))
		r.Get("/", h.listGrants)
	})
}

func (h *PermissionsHandler) listGrants(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"grants": h.service.ListGrants(r.Context())})
}
