package transfers

import (
	"time"

	"github.com/casetrail/casetrail/internal/platform/ledger"
)

const day = 24 * time.Hour

// SeedTransfers returns the demo custody transfers, newest first, timed
// relative to now.
func SeedTransfers(now time.Time) []Transfer {
	transfers := []Transfer{
		{ID: "TRF-2024-006", CaseID: "CASE-2024-012", FromDepartment: DepartmentPolice, ToDepartment: DepartmentForensic, Status: StatusPending, Priority: PriorityUrgent, Reason: "Laptop imaging before bail hearing", RequestedBy: "SI Meera Nair", RequestedAt: now.Add(-6 * time.Hour)},
		{ID: "TRF-2024-005", CaseID: "CASE-2024-011", FromDepartment: DepartmentPolice, ToDepartment: DepartmentForensic, Status: StatusInTransit, Priority: PriorityUrgent, Reason: "Biological samples for DNA profiling", RequestedBy: "Insp. Ravi Kumar", RequestedAt: now.Add(-4 * day)},
		{ID: "TRF-2024-004", CaseID: "CASE-2024-010", FromDepartment: DepartmentForensic, ToDepartment: DepartmentPolice, Status: StatusCompleted, Priority: PriorityNormal, Reason: "Questioned document report returned", RequestedBy: "Dr. Anil Menon", RequestedAt: now.Add(-9 * day)},
		{ID: "TRF-2024-003", CaseID: "CASE-2024-006", FromDepartment: DepartmentPolice, ToDepartment: DepartmentJudiciary, Status: StatusCompleted, Priority: PriorityNormal, Reason: "Charge sheet filed with sessions court", RequestedBy: "Insp. Ravi Kumar", RequestedAt: now.Add(-30 * day)},
		{ID: "TRF-2024-002", CaseID: "CASE-2024-008", FromDepartment: DepartmentPolice, ToDepartment: DepartmentForensic, Status: StatusRejected, Priority: PriorityLow, Reason: "Phone sent without seizure memo", RequestedBy: "HC Arjun Das", RequestedAt: now.Add(-45 * day)},
		{ID: "TRF-2024-001", CaseID: "CASE-2024-004", FromDepartment: DepartmentForensic, ToDepartment: DepartmentJudiciary, Status: StatusCompleted, Priority: PriorityNormal, Reason: "Toxicology report exhibited at trial", RequestedBy: "Dr. Anil Menon", RequestedAt: now.Add(-100 * day)},
	}
	for i := range transfers {
		t := &transfers[i]
		t.RequestedAt = t.RequestedAt.UTC()
		t.TxHash = ledger.TxHash(t.ID, t.CaseID, t.FromDepartment, t.ToDepartment)
	}
	return transfers
}
