package cli

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/casetrail/casetrail/internal/app"
	"github.com/casetrail/casetrail/internal/audit"
	"github.com/casetrail/casetrail/internal/cases"
	"github.com/casetrail/casetrail/internal/evidence"
	"github.com/casetrail/casetrail/internal/listview"
	listviewhttp "github.com/casetrail/casetrail/internal/listview/http"
	"github.com/casetrail/casetrail/internal/reports"
	"github.com/casetrail/casetrail/internal/transfers"
	"github.com/casetrail/casetrail/internal/users"
)

// Table is one rendered page of a list view.
type Table struct {
	Page       string              `json:"page"`
	Filters    map[string]string   `json:"filters"`
	Header     []string            `json:"header"`
	Rows       [][]string          `json:"rows"`
	Pagination listview.Pagination `json:"pagination"`
}

type column[T any] struct {
	name  string
	value func(T) string
}

// lister renders one page of records. Filters are applied by name, so an
// unknown name fails; q carries search, page_size and page.
type lister func(ctx context.Context, filters map[string]string, q url.Values) (Table, error)

func tableOf[T any](def listview.Definition[T], records func(context.Context) []T, now func() time.Time, cols ...column[T]) lister {
	return func(ctx context.Context, filters map[string]string, q url.Values) (Table, error) {
		c := listview.New(def, records(ctx), listview.WithClock(now))
		for name, value := range filters {
			if err := c.SetFilter(name, value); err != nil {
				return Table{}, err
			}
		}
		if err := listviewhttp.ApplyQuery(c, q); err != nil {
			return Table{}, err
		}
		view := c.ComputeVisible()
		t := Table{Page: def.Name, Filters: view.Filters, Pagination: view.Pagination}
		for _, col := range cols {
			t.Header = append(t.Header, col.name)
		}
		for _, item := range view.Items {
			row := make([]string, 0, len(cols))
			for _, col := range cols {
				row = append(row, col.value(item))
			}
			t.Rows = append(t.Rows, row)
		}
		return t, nil
	}
}

func stamp(t time.Time) string { return t.Format("2006-01-02 15:04") }

func listers(p *app.Pages, now func() time.Time) map[string]lister {
	return map[string]lister{
		"cases": tableOf(cases.Definition(), p.Cases.Records, now,
			column[cases.Case]{"ID", func(c cases.Case) string { return c.ID }},
			column[cases.Case]{"TITLE", func(c cases.Case) string { return c.Title }},
			column[cases.Case]{"STATUS", func(c cases.Case) string { return c.Status }},
			column[cases.Case]{"PRIORITY", func(c cases.Case) string { return c.Priority }},
			column[cases.Case]{"CREATED", func(c cases.Case) string { return stamp(c.CreatedAt) }},
		),
		"evidence": tableOf(evidence.Definition(), p.Evidence.Records, now,
			column[evidence.Item]{"ID", func(i evidence.Item) string { return i.ID }},
			column[evidence.Item]{"CASE", func(i evidence.Item) string { return i.CaseID }},
			column[evidence.Item]{"NAME", func(i evidence.Item) string { return i.Name }},
			column[evidence.Item]{"TYPE", func(i evidence.Item) string { return i.Type }},
			column[evidence.Item]{"STATUS", func(i evidence.Item) string { return i.Status }},
		),
		"reports": tableOf(reports.Definition(), p.Reports.Records, now,
			column[reports.Report]{"ID", func(r reports.Report) string { return r.ID }},
			column[reports.Report]{"CASE", func(r reports.Report) string { return r.CaseID }},
			column[reports.Report]{"TYPE", func(r reports.Report) string { return r.Type }},
			column[reports.Report]{"STATUS", func(r reports.Report) string { return r.Status }},
			column[reports.Report]{"ANALYST", func(r reports.Report) string { return r.Analyst }},
		),
		"transfers": tableOf(transfers.Definition(), p.Transfers.Records, now,
			column[transfers.Transfer]{"ID", func(t transfers.Transfer) string { return t.ID }},
			column[transfers.Transfer]{"CASE", func(t transfers.Transfer) string { return t.CaseID }},
			column[transfers.Transfer]{"FROM", func(t transfers.Transfer) string { return t.FromDepartment }},
			column[transfers.Transfer]{"TO", func(t transfers.Transfer) string { return t.ToDepartment }},
			column[transfers.Transfer]{"STATUS", func(t transfers.Transfer) string { return t.Status }},
		),
		"users": tableOf(users.Definition(), p.Users.Records, now,
			column[users.User]{"ID", func(u users.User) string { return u.ID }},
			column[users.User]{"NAME", func(u users.User) string { return u.Name }},
			column[users.User]{"ROLE", func(u users.User) string { return string(u.Role) }},
			column[users.User]{"STATUS", func(u users.User) string { return u.Status }},
		),
		"audit": tableOf(audit.Definition(), p.Audit.Records, now,
			column[audit.Entry]{"ID", func(e audit.Entry) string { return e.ID }},
			column[audit.Entry]{"ACTION", func(e audit.Entry) string { return e.Action }},
			column[audit.Entry]{"ENTITY", func(e audit.Entry) string { return e.Entity + " " + e.EntityID }},
			column[audit.Entry]{"ACTOR", func(e audit.Entry) string { return e.Actor }},
			column[audit.Entry]{"AT", func(e audit.Entry) string { return stamp(e.Timestamp) }},
		),
	}
}

func pageNames(m map[string]lister) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseFilters turns repeated name=value flags into a filter map.
func parseFilters(filters []string) (map[string]string, error) {
	out := make(map[string]string, len(filters))
	for _, f := range filters {
		name, value, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("filter %q must look like name=value", f)
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}
