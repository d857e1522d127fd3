package audit

import (
	"fmt"
	"strconv"
	"time"

	"github.com/casetrail/casetrail/internal/platform/ledger"
	"github.com/casetrail/casetrail/internal/shared"
)

type seedRow struct {
	action, entity, entityID, actor string
	role                            shared.Role
	details                         string
	ago                             time.Duration
}

var seedRows = []seedRow{
	{shared.ActionLogin, shared.EntityAuth, "USR-001", "Insp. Ravi Kumar", shared.RolePolice, "signed in", 2 * time.Hour},
	{shared.ActionStatusChange, shared.EntityCase, "CASE-2024-003", "Insp. Ravi Kumar", shared.RolePolice, "Active -> Awaiting Approval", 5 * time.Hour},
	{shared.ActionCreate, shared.EntityEvidence, "EV-2024-010", "SI Meera Nair", shared.RolePolice, "Laptop seized from suspect residence", 26 * time.Hour},
	{shared.ActionUpdate, shared.EntityReport, "RPT-2024-004", "Dr. Anil Menon", shared.RoleForensic, "findings updated", 2 * 24 * time.Hour},
	{shared.ActionStatusChange, shared.EntityTransfer, "TRF-2024-005", "Dr. Anil Menon", shared.RoleForensic, "Pending -> In Transit", 3 * 24 * time.Hour},
	{shared.ActionStatusChange, shared.EntityCase, "CASE-2024-009", "Hon. Justice Priya Sharma", shared.RoleJudiciary, "Awaiting Approval -> Approved", 6 * 24 * time.Hour},
	{shared.ActionCreate, shared.EntityTransfer, "TRF-2024-004", "SI Meera Nair", shared.RolePolice, "Police -> Forensic", 9 * 24 * time.Hour},
	{shared.ActionToggleStatus, shared.EntityUser, "USR-007", "Admin Office", shared.RoleAdmin, "Active -> Disabled", 15 * 24 * time.Hour},
	{shared.ActionCreate, shared.EntityCase, "CASE-2024-012", "Insp. Ravi Kumar", shared.RolePolice, "Cyber fraud complaint registered", 20 * 24 * time.Hour},
	{shared.ActionExport, shared.EntityAudit, "pdf", "Hon. Justice Priya Sharma", shared.RoleJudiciary, "audit trail exported as pdf", 40 * 24 * time.Hour},
	{shared.ActionStatusChange, shared.EntityCase, "CASE-2024-001", "Hon. Justice Priya Sharma", shared.RoleJudiciary, "Transferred -> Closed", 75 * 24 * time.Hour},
	{shared.ActionCreate, shared.EntityUser, "USR-008", "Admin Office", shared.RoleAdmin, "account created", 200 * 24 * time.Hour},
}

// SeedEntries returns the demo trail, newest first, timed relative to now.
func SeedEntries(now time.Time) []Entry {
	const firstBlock = 18_452_100
	entries := make([]Entry, 0, len(seedRows))
	for i, row := range seedRows {
		n := len(seedRows) - i
		e := Entry{
			ID:          fmt.Sprintf("AUD-%05d", n),
			Action:      row.action,
			Entity:      row.entity,
			EntityID:    row.entityID,
			Actor:       row.actor,
			Role:        row.role,
			Details:     row.details,
			Timestamp:   now.Add(-row.ago).UTC(),
			BlockNumber: firstBlock + int64(n)*37,
		}
		e.TxHash = ledger.TxHash(e.ID, e.Action, e.Entity, e.EntityID, e.Actor,
			e.Timestamp.Format(time.RFC3339Nano), strconv.FormatInt(e.BlockNumber, 10))
		entries = append(entries, e)
	}
	return entries
}
