package audithttp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/casetrail/casetrail/internal/audit"
	listviewhttp "github.com/casetrail/casetrail/internal/listview/http"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/shared"
)

// TrailService defines the business contract for trail data.
type TrailService interface {
	Records(ctx context.Context) []audit.Entry
	Get(ctx context.Context, id string) (audit.Entry, error)
	Record(ctx context.Context, log shared.AuditLog) error
}

// Exporter writes audit trail exports.
type Exporter interface {
	WriteCSV(entries []audit.Entry) ([]byte, error)
	RenderPDF(ctx context.Context, report audit.Report) ([]byte, error)
}

// Handler serves the audit trail page and its exports.
type Handler struct {
	logger   *slog.Logger
	service  TrailService
	exporter Exporter
	list     *listviewhttp.Handler[audit.Entry]
	rbac     rbac.Middleware
	now      func() time.Time
}

// NewHandler builds the audit handler.
func NewHandler(logger *slog.Logger, service TrailService, exporter Exporter, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		exporter: exporter,
		list:     listviewhttp.NewHandler(logger, audit.Definition(), service),
		rbac:     rbac,
		now:      time.Now,
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, _, err := h.exportEntries(r, "csv")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	csvBytes, err := h.exporter.WriteCSV(entries)
	if err != nil {
		h.handleServerError(w, "encode csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"audit-trail.csv\"")
	if _, err := w.Write(csvBytes); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	entries, filters, err := h.exportEntries(r, "pdf")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	report := audit.Report{Entries: entries, Filters: filters, GeneratedAt: h.now()}
	if id, ok := shared.IdentityFromContext(r.Context()); ok {
		report.GeneratedBy = id.Actor()
	}
	pdfBytes, err := h.exporter.RenderPDF(r.Context(), report)
	if err != nil {
		h.handleServerError(w, "render pdf", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"audit-trail.pdf\"")
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Warn("write pdf", slog.Any("error", err))
	}
}

// exportEntries returns the entries matching the session view and any query
// overrides, and records the export itself in the trail. The export entry is
// not part of the returned set.
func (h *Handler) exportEntries(r *http.Request, format string) ([]audit.Entry, map[string]string, error) {
	c := h.list.Controller(r.Context())
	if err := listviewhttp.ApplyQuery(c, r.URL.Query()); err != nil {
		return nil, nil, err
	}
	entries := c.Filtered()
	filters := c.Filters()
	details := "audit trail exported as " + format
	if len(filters) > 0 {
		pairs := make([]string, 0, len(filters))
		for _, name := range c.Definition().FilterNames() {
			if v, ok := filters[name]; ok {
				pairs = append(pairs, name+"="+v)
			}
		}
		details += " (" + strings.Join(pairs, ", ") + ")"
	}
	log := shared.AuditFromIdentity(r.Context(), shared.ActionExport, shared.EntityAudit, format, details)
	if err := h.service.Record(r.Context(), log); err != nil {
		h.logger.Warn("record export", slog.Any("error", err))
	}
	return entries, filters, nil
}

func (h *Handler) handleServerError(w http.ResponseWriter, message string, err error) {
	if h.logger != nil {
		h.logger.Error(message, slog.Any("error", err))
	}
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
