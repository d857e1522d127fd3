// Package listviewhttp serves list views over HTTP. Each request rebuilds a
// controller from the page's records, restores the view state kept in the
// session, applies the requested change and stores the state again.
package listviewhttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/casetrail/casetrail/internal/listview"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
)

// QuerySearch is the short query parameter accepted for the search filter.
const QuerySearch = "q"

// Source provides the current records of one page.
type Source[T any] interface {
	Records(ctx context.Context) []T
}

// Handler exposes the list view endpoints of a single page.
type Handler[T any] struct {
	logger    *slog.Logger
	def       listview.Definition[T]
	source    Source[T]
	opts      []listview.Option
	validator *httpx.Validator
}

// NewHandler builds a Handler for def backed by source.
func NewHandler[T any](logger *slog.Logger, def listview.Definition[T], source Source[T], opts ...listview.Option) *Handler[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler[T]{
		logger:    logger.With(slog.String("page", def.Name)),
		def:       def,
		source:    source,
		opts:      opts,
		validator: httpx.NewValidator(),
	}
}

// MountRoutes registers the view endpoints relative to the page root.
func (h *Handler[T]) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/view/filter", h.handleFilter)
	r.Post("/view/page", h.handlePage)
	r.Post("/view/page-size", h.handlePageSize)
	r.Post("/view/clear", h.handleClear)
}

// Controller returns a controller over the current records with the view
// state stored in the request session, if any.
func (h *Handler[T]) Controller(ctx context.Context) *listview.Controller[T] {
	c := listview.New(h.def, h.source.Records(ctx), h.opts...)
	if sess := shared.SessionFromContext(ctx); sess != nil {
		var state listview.State
		if sess.GetJSON(shared.ViewKey(h.def.Name), &state) {
			c.Restore(state)
		}
	}
	return c
}

// Filtered returns every record matching the session's filters, ignoring
// pagination.
func (h *Handler[T]) Filtered(ctx context.Context) []T {
	return h.Controller(ctx).Filtered()
}

type filterRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type pageSizeRequest struct {
	PageSize int `json:"page_size" validate:"required"`
}

func (h *Handler[T]) handleList(w http.ResponseWriter, r *http.Request) {
	c := h.Controller(r.Context())
	if err := ApplyQuery(c, r.URL.Query()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, r, c)
}

func (h *Handler[T]) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c := h.Controller(r.Context())
	if err := c.SetFilter(req.Name, req.Value); err != nil {
		httpx.RespondError(w, invalid(err))
		return
	}
	h.respond(w, r, c)
}

func (h *Handler[T]) handlePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c := h.Controller(r.Context())
	c.GoToPage(req.Page)
	h.respond(w, r, c)
}

func (h *Handler[T]) handlePageSize(w http.ResponseWriter, r *http.Request) {
	var req pageSizeRequest
	if err := h.decode(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c := h.Controller(r.Context())
	if err := c.ChangePageSize(req.PageSize); err != nil {
		httpx.RespondError(w, invalid(err))
		return
	}
	h.respond(w, r, c)
}

func (h *Handler[T]) handleClear(w http.ResponseWriter, r *http.Request) {
	c := h.Controller(r.Context())
	c.ClearFilters()
	h.respond(w, r, c)
}

func (h *Handler[T]) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validator.Struct(target)
}

func (h *Handler[T]) respond(w http.ResponseWriter, r *http.Request, c *listview.Controller[T]) {
	view := c.ComputeVisible()
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if err := sess.SetJSON(shared.ViewKey(h.def.Name), c.State()); err != nil {
			h.logger.Warn("store view state", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, view)
}

// ApplyQuery applies filter, page size and page overrides from query
// parameters, in that order, so an explicit page survives the page resets
// caused by the other two.
func ApplyQuery[T any](c *listview.Controller[T], q url.Values) error {
	if q.Has(QuerySearch) {
		if err := c.SetFilter(listview.FilterSearch, q.Get(QuerySearch)); err != nil {
			return invalid(err)
		}
	}
	for _, name := range c.Definition().FilterNames() {
		if !q.Has(name) {
			continue
		}
		if err := c.SetFilter(name, q.Get(name)); err != nil {
			return invalid(err)
		}
	}
	if q.Has("page_size") {
		n, err := strconv.Atoi(q.Get("page_size"))
		if err != nil {
			return httpx.NewValidationError("page_size must be a number", "page_size")
		}
		if err := c.ChangePageSize(n); err != nil {
			return invalid(err)
		}
	}
	if q.Has("page") {
		n, err := strconv.Atoi(q.Get("page"))
		if err != nil {
			return httpx.NewValidationError("page must be a number", "page")
		}
		c.GoToPage(n)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", httpx.ErrValidation, err)
}
