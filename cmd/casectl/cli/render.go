package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/casetrail/casetrail/internal/listview"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true)
	currentPage = lipgloss.NewStyle().Bold(true).Underline(true)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintf(w, "no %s match the current filters\n", t.Page)
		return err
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Header...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	p := t.Pagination
	start, end := p.Offsets()
	footer := fmt.Sprintf("%d-%d of %d  page %s", start+1, end, p.Total, renderWindow(p.Window))
	_, err := fmt.Fprintf(w, "%s\n%s\n", tbl.String(), footerStyle.Render(footer))
	return err
}

// renderWindow lays out a pagination window on one line, e.g. "1 … 4 [5] 6 … 10".
func renderWindow(items []listview.PageItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch {
		case item.Ellipsis:
			parts = append(parts, "…")
		case item.Current:
			parts = append(parts, currentPage.Render(fmt.Sprintf("[%d]", item.Number)))
		default:
			parts = append(parts, fmt.Sprint(item.Number))
		}
	}
	return strings.Join(parts, " ")
}
