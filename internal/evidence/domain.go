// Package evidence tracks the items collected for each case.
package evidence

import (
	"time"

	"github.com/casetrail/casetrail/internal/listview"
)

// Evidence types.
const (
	TypePhysical    = "Physical"
	TypeDigital     = "Digital"
	TypeBiological  = "Biological"
	TypeDocumentary = "Documentary"
	TypeWeapon      = "Weapon"
)

// Evidence statuses.
const (
	StatusCollected = "Collected"
	StatusInTransit = "In Transit"
	StatusInLab     = "In Lab"
	StatusAnalyzed  = "Analyzed"
	StatusStored    = "Stored"
)

// Types lists evidence types in display order.
func Types() []string {
	return []string{TypePhysical, TypeDigital, TypeBiological, TypeDocumentary, TypeWeapon}
}

// Statuses lists evidence statuses in display order.
func Statuses() []string {
	return []string{StatusCollected, StatusInTransit, StatusInLab, StatusAnalyzed, StatusStored}
}

// Item is one piece of evidence attached to a case.
type Item struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"case_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CollectedBy string    `json:"collected_by"`
	Location    string    `json:"location"`
	CollectedAt time.Time `json:"collected_at"`
	Hash        string    `json:"hash"`
}

// RecordID implements records.Identified.
func (i Item) RecordID() string { return i.ID }

// Definition describes the evidence list view.
func Definition() listview.Definition[Item] {
	return listview.Definition[Item]{
		Name: "evidence",
		Search: []listview.Field[Item]{
			func(i Item) string { return i.ID },
			func(i Item) string { return i.CaseID },
			func(i Item) string { return i.Name },
			func(i Item) string { return i.Description },
			func(i Item) string { return i.CollectedBy },
		},
		Categories: map[string]listview.Field[Item]{
			"type":   func(i Item) string { return i.Type },
			"status": func(i Item) string { return i.Status },
			"case":   func(i Item) string { return i.CaseID },
		},
		Timestamp: func(i Item) time.Time { return i.CollectedAt },
		PageSize:  6,
		PageSizes: listview.PresetPageSizes(),
	}
}
