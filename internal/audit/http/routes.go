package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
)

// ExportsPerMinute bounds how often one user may download the trail.
const ExportsPerMinute = 10

// MountRoutes registers the trail list, entry lookup and the two exports.
// Exports need audit.export and share a per-user budget across formats.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.With(h.rbac.RequireAny(shared.PermAuditView)).Group(func(r chi.Router) {
		h.list.MountRoutes(r)
		r.Get("/{id}", h.handleGet)
	})
	r.With(h.rbac.RequireAny(shared.PermAuditExport), exportBudget(ExportsPerMinute)).Group(func(r chi.Router) {
		r.Get("/export.csv", h.handleExportCSV)
		r.Get("/export.pdf", h.handleExportPDF)
	})
}

func exportBudget(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(exporterKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "export limit reached, try again later")
		}),
	)
}

// exporterKey buckets by signed-in user, falling back to client IP.
func exporterKey(r *http.Request) (string, error) {
	if id, ok := shared.IdentityFromContext(r.Context()); ok {
		return "user:" + id.UserID, nil
	}
	ip, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + ip, nil
}
