// Package cases manages case intake and the case list page.
package cases

import (
	"time"

	"github.com/casetrail/casetrail/internal/evidence"
	"github.com/casetrail/casetrail/internal/listview"
)

// Case types.
const (
	TypeTheft      = "Theft"
	TypeAssault    = "Assault"
	TypeFraud      = "Fraud"
	TypeHomicide   = "Homicide"
	TypeCybercrime = "Cybercrime"
	TypeNarcotics  = "Narcotics"
)

// Case statuses.
const (
	StatusActive           = "Active"
	StatusAwaitingApproval = "Awaiting Approval"
	StatusApproved         = "Approved"
	StatusTransferred      = "Transferred"
	StatusClosed           = "Closed"
)

// Priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Types lists case types in display order.
func Types() []string {
	return []string{TypeTheft, TypeAssault, TypeFraud, TypeHomicide, TypeCybercrime, TypeNarcotics}
}

// Priorities lists priorities from most to least urgent.
func Priorities() []string {
	return []string{PriorityHigh, PriorityMedium, PriorityLow}
}

// Case is a registered police case.
type Case struct {
	ID          string    `json:"id"`
	FIRNumber   string    `json:"fir_number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Station     string    `json:"station"`
	Officer     string    `json:"officer"`
	Location    string    `json:"location"`
	Court       string    `json:"court,omitempty"`
	Verdict     string    `json:"verdict,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecordID implements records.Identified.
func (c Case) RecordID() string { return c.ID }

// Detail is a case with its evidence and the statuses the viewer may pick next.
type Detail struct {
	Case
	Evidence     []evidence.Item `json:"evidence"`
	NextStatuses []string        `json:"next_statuses"`
}

// Definition describes the case list view.
func Definition() listview.Definition[Case] {
	return listview.Definition[Case]{
		Name: "cases",
		Search: []listview.Field[Case]{
			func(c Case) string { return c.ID },
			func(c Case) string { return c.FIRNumber },
			func(c Case) string { return c.Title },
			func(c Case) string { return c.Officer },
		},
		Categories: map[string]listview.Field[Case]{
			"status":   func(c Case) string { return c.Status },
			"priority": func(c Case) string { return c.Priority },
			"type":     func(c Case) string { return c.Type },
		},
		Timestamp: func(c Case) time.Time { return c.CreatedAt },
		PageSize:  5,
		PageSizes: listview.PresetPageSizes(),
	}
}
