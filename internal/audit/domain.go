// Package audit keeps the in-memory audit trail. Every change made through
// the record pages appends an entry carrying a decorative transaction hash
// and block number.
package audit

import (
	"time"

	"github.com/casetrail/casetrail/internal/listview"
	"github.com/casetrail/casetrail/internal/shared"
)

// Entry is one row of the audit trail.
type Entry struct {
	ID          string      `json:"id"`
	Action      string      `json:"action"`
	Entity      string      `json:"entity"`
	EntityID    string      `json:"entity_id"`
	Actor       string      `json:"actor"`
	Role        shared.Role `json:"role,omitempty"`
	Details     string      `json:"details,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	TxHash      string      `json:"tx_hash"`
	BlockNumber int64       `json:"block_number"`
}

// RecordID implements records.Identified.
func (e Entry) RecordID() string { return e.ID }

// Definition describes the audit trail list view.
func Definition() listview.Definition[Entry] {
	return listview.Definition[Entry]{
		Name: "audit",
		Search: []listview.Field[Entry]{
			func(e Entry) string { return e.ID },
			func(e Entry) string { return e.EntityID },
			func(e Entry) string { return e.Actor },
			func(e Entry) string { return e.Details },
			func(e Entry) string { return e.TxHash },
		},
		Categories: map[string]listview.Field[Entry]{
			"action": func(e Entry) string { return e.Action },
			"entity": func(e Entry) string { return e.Entity },
			"role":   func(e Entry) string { return string(e.Role) },
		},
		Timestamp: func(e Entry) time.Time { return e.Timestamp },
		PageSize:  10,
		PageSizes: listview.PresetPageSizes(),
	}
}
