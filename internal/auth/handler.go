package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
)

// PermissionResolver lists the permissions of an identity's active role.
type PermissionResolver interface {
	EffectivePermissions(ctx context.Context, id shared.Identity) ([]string, error)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	permissions PermissionResolver
	csrfManager *shared.CSRFManager
	validator   *httpx.Validator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, permissions PermissionResolver, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		permissions: permissions,
		csrfManager: csrf,
		validator:   httpx.NewValidator(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/csrf", h.handleCSRF)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/switch", h.handleSwitch)
	r.Get("/me", h.handleMe)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type switchForm struct {
	Role string `json:"role" validate:"required"`
}

// sessionView is the signed-in state returned to the client.
type sessionView struct {
	Identity    shared.Identity `json:"identity"`
	Permissions []string        `json:"permissions"`
	CSRFToken   string          `json:"csrf_token,omitempty"`
}

func (h *Handler) handleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrfManager.EnsureToken(r.Context(), shared.SessionFromContext(r.Context()))
	if err != nil {
		h.logger.Error("issue csrf token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	id, err := h.service.Login(r.Context(), sess, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", shared.UserSafeMessage(err))
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("login", slog.String("user_id", id.UserID), slog.String("role", string(id.ActiveRole)))
	h.respondSession(w, r, id, true)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), shared.SessionFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var form switchForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := h.service.SwitchContext(r.Context(), shared.SessionFromContext(r.Context()), form.Role)
	if err != nil {
		if errors.Is(err, shared.ErrRoleNotAssigned) {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", shared.UserSafeMessage(err))
			return
		}
		httpx.RespondError(w, err)
		return
	}
	h.respondSession(w, r, id, false)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, err := h.service.Current(r.Context(), shared.SessionFromContext(r.Context()))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.respondSession(w, r, id, false)
}

func (h *Handler) respondSession(w http.ResponseWriter, r *http.Request, id shared.Identity, withToken bool) {
	view := sessionView{Identity: id, Permissions: []string{}}
	if h.permissions != nil {
		perms, err := h.permissions.EffectivePermissions(r.Context(), id)
		if err != nil {
			h.logger.Warn("resolve permissions", slog.Any("error", err))
		} else if perms != nil {
			view.Permissions = perms
		}
	}
	if withToken && h.csrfManager != nil {
		token, err := h.csrfManager.Rotate(r.Context(), shared.SessionFromContext(r.Context()))
		if err != nil {
			h.logger.Warn("rotate csrf token", slog.Any("error", err))
		} else {
			view.CSRFToken = token
		}
	}
	httpx.JSON(w, http.StatusOK, view)
}
