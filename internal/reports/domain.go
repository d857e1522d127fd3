// Package reports manages forensic lab reports.
package reports

import (
	"time"

	"github.com/casetrail/casetrail/internal/listview"
)

// Report types.
const (
	TypeDNA         = "DNA Analysis"
	TypeToxicology  = "Toxicology"
	TypeBallistics  = "Ballistics"
	TypeDigital     = "Digital Forensics"
	TypeFingerprint = "Fingerprint"
)

// Report statuses.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusApproved   = "Approved"
	StatusRejected   = "Rejected"
)

// Types lists report types in display order.
func Types() []string {
	return []string{TypeDNA, TypeToxicology, TypeBallistics, TypeDigital, TypeFingerprint}
}

// Report is a lab analysis request and its findings.
type Report struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"case_id"`
	EvidenceID  string    `json:"evidence_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Analyst     string    `json:"analyst"`
	Lab         string    `json:"lab"`
	Findings    string    `json:"findings,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RecordID implements records.Identified.
func (r Report) RecordID() string { return r.ID }

// Definition describes the lab report list view.
func Definition() listview.Definition[Report] {
	return listview.Definition[Report]{
		Name: "reports",
		Search: []listview.Field[Report]{
			func(r Report) string { return r.ID },
			func(r Report) string { return r.CaseID },
			func(r Report) string { return r.EvidenceID },
			func(r Report) string { return r.Title },
			func(r Report) string { return r.Analyst },
		},
		Categories: map[string]listview.Field[Report]{
			"status": func(r Report) string { return r.Status },
			"type":   func(r Report) string { return r.Type },
		},
		Timestamp: func(r Report) time.Time { return r.SubmittedAt },
		PageSize:  10,
		PageSizes: listview.PresetPageSizes(),
	}
}
