package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

// ErrPDFUnavailable indicates the PDF renderer failed to produce a document.
var ErrPDFUnavailable = errors.New("audit: pdf export unavailable")

// Report is the data rendered into an exported document.
type Report struct {
	Entries     []Entry
	Filters     map[string]string
	GeneratedBy string
	GeneratedAt time.Time
}

// Exporter writes the audit trail as CSV or PDF.
type Exporter struct {
	title string
}

// NewExporter builds an Exporter. An empty title falls back to the default.
func NewExporter(title string) *Exporter {
	if strings.TrimSpace(title) == "" {
		title = "CaseTrail Audit Trail"
	}
	return &Exporter{title: title}
}

var csvHeader = []string{"id", "timestamp", "action", "entity", "entity_id", "actor", "role", "details", "tx_hash", "block_number"}

// WriteCSV encodes entries with a header row.
func (e *Exporter) WriteCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Timestamp.UTC().Format(time.RFC3339),
			entry.Action,
			entry.Entity,
			entry.EntityID,
			entry.Actor,
			string(entry.Role),
			entry.Details,
			entry.TxHash,
			strconv.FormatInt(entry.BlockNumber, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF lays out the report on A4 pages.
func (e *Exporter) RenderPDF(ctx context.Context, report Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle(e.title, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(e.title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	generatedAt := report.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	pdf.CellFormat(0, 6, "Generated at: "+generatedAt.UTC().Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated by: "+tr(orDash(report.GeneratedBy)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Filters: "+tr(describeFilters(report.Filters)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Entries: %d", len(report.Entries)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	sectionTitle(pdf, "Entries")
	if len(report.Entries) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, "(empty)", "", "L", false)
	}
	for _, entry := range report.Entries {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s | %s | %s %s | %s",
			entry.ID,
			entry.Timestamp.UTC().Format("2006-01-02 15:04"),
			entry.Action,
			entry.Entity,
			entry.EntityID,
		)), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(0, 4.5, tr(fmt.Sprintf("actor: %s (%s)", entry.Actor, orDash(string(entry.Role)))), "", "L", false)
		if strings.TrimSpace(entry.Details) != "" {
			pdf.MultiCell(0, 4.5, tr("details: "+entry.Details), "", "L", false)
		}
		pdf.MultiCell(0, 4.5, fmt.Sprintf("tx: %s  block: %d", entry.TxHash, entry.BlockNumber), "", "L", false)
		pdf.Ln(1)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 4, "Transaction hashes and block numbers are display references and are not verified.", "", "L", false)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFUnavailable, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFUnavailable, err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(2)
}

func describeFilters(filters map[string]string) string {
	if len(filters) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+filters[k])
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
