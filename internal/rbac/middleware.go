package rbac

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
)

// Middleware guards routes by the permissions of the caller's active role.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// requirement is a normalised permission list plus how it is matched.
type requirement struct {
	perms []string
	all   bool
}

func newRequirement(perms []string, all bool) requirement {
	seen := make(map[string]bool, len(perms))
	req := requirement{all: all}
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		req.perms = append(req.perms, p)
	}
	return req
}

// missing returns the required permissions absent from granted. For an any
// requirement it is empty as soon as one permission matches.
func (req requirement) missing(granted []string) []string {
	held := make(map[string]bool, len(granted))
	for _, p := range granted {
		held[strings.ToLower(p)] = true
	}
	var out []string
	for _, p := range req.perms {
		if held[p] {
			if !req.all {
				return nil
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

// RequireAny admits callers holding at least one of perms.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.guard(newRequirement(perms, false))
}

// RequireAll admits callers holding every one of perms.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.guard(newRequirement(perms, true))
}

func (m Middleware) guard(req requirement) func(http.Handler) http.Handler {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		if len(req.perms) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			granted, err := m.Service.EffectivePermissions(r.Context(), id)
			if err != nil {
				logger.Error("resolve permissions", slog.String("user_id", id.UserID), slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			if missing := req.missing(granted); len(missing) > 0 {
				logger.Info("permission denied",
					slog.String("user_id", id.UserID),
					slog.String("role", string(id.ActiveRole)),
					slog.String("path", r.URL.Path),
					slog.Any("missing", missing),
				)
				httpx.RespondError(w, fmt.Errorf("%w: %s role lacks %s", httpx.ErrForbidden, id.ActiveRole, strings.Join(missing, ", ")))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
