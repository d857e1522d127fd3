// Package dashboard summarises every record page for the landing screen.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/casetrail/casetrail/internal/audit"
)

const (
	recentActivity = 5
	requestTimeout = 2 * time.Second
)

// Counter counts one page's records by status.
type Counter func(ctx context.Context) (PageSummary, error)

// Source names a page and how to count it.
type Source struct {
	Name  string
	Count Counter
}

// ActivitySource lists audit entries, newest first.
type ActivitySource interface {
	Records(ctx context.Context) []audit.Entry
}

// PageSummary is the headline of one page.
type PageSummary struct {
	Name     string         `json:"name"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// Summary is the dashboard payload.
type Summary struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Pages       []PageSummary `json:"pages"`
	Recent      []audit.Entry `json:"recent"`
}

// Service gathers page summaries concurrently.
type Service struct {
	sources  []Source
	activity ActivitySource
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(activity ActivitySource, sources ...Source) *Service {
	return &Service{sources: sources, activity: activity, now: time.Now}
}

// CountBy builds a Counter over a page's records.
func CountBy[T any](name string, records func(ctx context.Context) []T, status func(T) string) Source {
	return Source{Name: name, Count: func(ctx context.Context) (PageSummary, error) {
		if err := ctx.Err(); err != nil {
			return PageSummary{}, err
		}
		items := records(ctx)
		summary := PageSummary{Name: name, Total: len(items), ByStatus: make(map[string]int)}
		for _, item := range items {
			summary.ByStatus[status(item)]++
		}
		return summary, nil
	}}
}

// Summary counts every source in parallel. Pages keep source order.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	pages := make([]PageSummary, len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			summary, err := src.Count(gctx)
			if err != nil {
				return fmt.Errorf("dashboard: count %s: %w", src.Name, err)
			}
			summary.Name = src.Name
			pages[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	out := Summary{GeneratedAt: s.now().UTC(), Pages: pages, Recent: []audit.Entry{}}
	if s.activity != nil {
		entries := s.activity.Records(ctx)
		if len(entries) > recentActivity {
			entries = entries[:recentActivity]
		}
		out.Recent = entries
	}
	return out, nil
}
