// Package transfers tracks custody transfers of case files between
// departments.
package transfers

import (
	"time"

	"github.com/casetrail/casetrail/internal/listview"
)

// Departments.
const (
	DepartmentPolice    = "Police"
	DepartmentForensic  = "Forensic"
	DepartmentJudiciary = "Judiciary"
)

// Transfer statuses.
const (
	StatusPending   = "Pending"
	StatusInTransit = "In Transit"
	StatusCompleted = "Completed"
	StatusRejected  = "Rejected"
)

// Priorities.
const (
	PriorityUrgent = "Urgent"
	PriorityNormal = "Normal"
	PriorityLow    = "Low"
)

// Departments lists departments in display order.
func Departments() []string {
	return []string{DepartmentPolice, DepartmentForensic, DepartmentJudiciary}
}

// Priorities lists transfer priorities in display order.
func Priorities() []string {
	return []string{PriorityUrgent, PriorityNormal, PriorityLow}
}

// Transfer moves custody of a case file from one department to another.
type Transfer struct {
	ID             string    `json:"id"`
	CaseID         string    `json:"case_id"`
	FromDepartment string    `json:"from_department"`
	ToDepartment   string    `json:"to_department"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	Reason         string    `json:"reason"`
	RequestedBy    string    `json:"requested_by"`
	RequestedAt    time.Time `json:"requested_at"`
	TxHash         string    `json:"tx_hash"`
}

// RecordID implements records.Identified.
func (t Transfer) RecordID() string { return t.ID }

// Definition describes the transfer list view.
func Definition() listview.Definition[Transfer] {
	return listview.Definition[Transfer]{
		Name: "transfers",
		Search: []listview.Field[Transfer]{
			func(t Transfer) string { return t.ID },
			func(t Transfer) string { return t.CaseID },
			func(t Transfer) string { return t.Reason },
			func(t Transfer) string { return t.RequestedBy },
			func(t Transfer) string { return t.TxHash },
		},
		Categories: map[string]listview.Field[Transfer]{
			"status":   func(t Transfer) string { return t.Status },
			"priority": func(t Transfer) string { return t.Priority },
			"from":     func(t Transfer) string { return t.FromDepartment },
			"to":       func(t Transfer) string { return t.ToDepartment },
		},
		Timestamp: func(t Transfer) time.Time { return t.RequestedAt },
		PageSize:  10,
		PageSizes: listview.PresetPageSizes(),
	}
}
