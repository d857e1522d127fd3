package evidence

import (
	"time"

	"github.com/casetrail/casetrail/internal/platform/ledger"
)

const day = 24 * time.Hour

// SeedItems returns the demo evidence register, newest first, timed relative
// to now.
func SeedItems(now time.Time) []Item {
	items := []Item{
		{ID: "EV-2024-010", CaseID: "CASE-2024-012", Name: "Suspect laptop", Description: "Dell Latitude seized from residence, powered off", Type: TypeDigital, Status: StatusCollected, CollectedBy: "SI Meera Nair", Location: "Cyber Cell Locker 2", CollectedAt: now.Add(-26 * time.Hour)},
		{ID: "EV-2024-009", CaseID: "CASE-2024-011", Name: "Blood-stained shirt", Description: "Recovered near the east gate", Type: TypeBiological, Status: StatusInLab, CollectedBy: "Insp. Ravi Kumar", Location: "State Forensic Lab", CollectedAt: now.Add(-4 * day)},
		{ID: "EV-2024-008", CaseID: "CASE-2024-010", Name: "Forged cheque book", Description: "Twelve leaves, three signed", Type: TypeDocumentary, Status: StatusAnalyzed, CollectedBy: "SI Meera Nair", Location: "Evidence Room B", CollectedAt: now.Add(-12 * day)},
		{ID: "EV-2024-007", CaseID: "CASE-2024-008", Name: "Mobile phone", Description: "Screen cracked, SIM removed", Type: TypeDigital, Status: StatusInTransit, CollectedBy: "HC Arjun Das", Location: "In transit to Cyber Lab", CollectedAt: now.Add(-18 * day)},
		{ID: "EV-2024-006", CaseID: "CASE-2024-007", Name: "Kitchen knife", Description: "Twenty centimetre blade", Type: TypeWeapon, Status: StatusInLab, CollectedBy: "Insp. Ravi Kumar", Location: "State Forensic Lab", CollectedAt: now.Add(-25 * day)},
		{ID: "EV-2024-005", CaseID: "CASE-2024-005", Name: "CCTV footage", Description: "Two hours from the market junction camera", Type: TypeDigital, Status: StatusAnalyzed, CollectedBy: "HC Arjun Das", Location: "Evidence Server", CollectedAt: now.Add(-40 * day)},
		{ID: "EV-2024-004", CaseID: "CASE-2024-004", Name: "Narcotic sample", Description: "250 g white powder in sealed pouch", Type: TypePhysical, Status: StatusStored, CollectedBy: "SI Meera Nair", Location: "Evidence Room A", CollectedAt: now.Add(-55 * day)},
		{ID: "EV-2024-003", CaseID: "CASE-2024-003", Name: "Fingerprint lift cards", Description: "Four lifts from the window frame", Type: TypePhysical, Status: StatusAnalyzed, CollectedBy: "Insp. Ravi Kumar", Location: "Evidence Room A", CollectedAt: now.Add(-70 * day)},
		{ID: "EV-2024-002", CaseID: "CASE-2024-002", Name: "Country-made pistol", Description: "Single barrel, two live rounds", Type: TypeWeapon, Status: StatusStored, CollectedBy: "HC Arjun Das", Location: "Armoury Locker 4", CollectedAt: now.Add(-120 * day)},
		{ID: "EV-2024-001", CaseID: "CASE-2024-001", Name: "Stolen jewellery", Description: "Gold chain and two rings", Type: TypePhysical, Status: StatusStored, CollectedBy: "Insp. Ravi Kumar", Location: "Evidence Room A", CollectedAt: now.Add(-300 * day)},
	}
	for i := range items {
		items[i].CollectedAt = items[i].CollectedAt.UTC()
		items[i].Hash = ledger.Digest(items[i].ID, items[i].CaseID, items[i].Name, items[i].Type)
	}
	return items
}
