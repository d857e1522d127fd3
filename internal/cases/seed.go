package cases

import "time"

const day = 24 * time.Hour

type seedRow struct {
	id, fir, title, description, kind, status, priority, station, officer, location, court, verdict string
	age                                                                                             time.Duration
}

var seedRows = []seedRow{
	{"CASE-2024-012", "FIR-2024-0412", "Online investment fraud ring", "Victims lured into a fake crypto trading app", TypeCybercrime, StatusActive, PriorityHigh, "Cyber Crime PS", "SI Meera Nair", "Sector 21", "", "", 20 * day},
	{"CASE-2024-011", "FIR-2024-0398", "Body found near east gate", "Unidentified male, stab wounds", TypeHomicide, StatusActive, PriorityHigh, "Central PS", "Insp. Ravi Kumar", "East Gate Road", "", "", 24 * day},
	{"CASE-2024-010", "FIR-2024-0377", "Cheque forgery at cooperative bank", "Three forged cheques cleared in one week", TypeFraud, StatusActive, PriorityMedium, "Market PS", "SI Meera Nair", "Cooperative Bank, Main St", "", "", 31 * day},
	{"CASE-2024-009", "FIR-2024-0341", "Assault outside bus terminal", "Two suspects identified on CCTV", TypeAssault, StatusApproved, PriorityMedium, "Central PS", "HC Arjun Das", "Bus Terminal", "District Court II", "", 45 * day},
	{"CASE-2024-008", "FIR-2024-0322", "Phone snatching on ring road", "Bike-borne suspects, three similar complaints", TypeTheft, StatusActive, PriorityLow, "Ring Road PS", "HC Arjun Das", "Ring Road Junction", "", "", 52 * day},
	{"CASE-2024-007", "FIR-2024-0290", "Domestic assault with knife", "Victim hospitalised, suspect absconding", TypeAssault, StatusActive, PriorityHigh, "North PS", "Insp. Ravi Kumar", "North Colony", "", "", 63 * day},
	{"CASE-2024-006", "FIR-2024-0254", "Narcotics seizure at checkpost", "Truck intercepted with concealed cargo", TypeNarcotics, StatusTransferred, PriorityMedium, "Highway PS", "SI Meera Nair", "NH-44 Checkpost", "Sessions Court", "", 80 * day},
	{"CASE-2024-005", "FIR-2024-0231", "Shop burglary in old market", "Shutter forced open overnight", TypeTheft, StatusActive, PriorityMedium, "Market PS", "HC Arjun Das", "Old Market", "", "", 95 * day},
	{"CASE-2024-004", "FIR-2024-0187", "Drug peddling near college", "Repeat offender caught with samples", TypeNarcotics, StatusClosed, PriorityHigh, "North PS", "SI Meera Nair", "College Road", "Sessions Court", "Convicted", 130 * day},
	{"CASE-2024-003", "FIR-2024-0150", "House break-in, Green Park", "Entry through rear window", TypeTheft, StatusAwaitingApproval, PriorityLow, "South PS", "Insp. Ravi Kumar", "Green Park", "", "", 150 * day},
	{"CASE-2024-002", "FIR-2024-0098", "Armed threat at fuel station", "Attendant threatened with pistol", TypeAssault, StatusActive, PriorityHigh, "Highway PS", "HC Arjun Das", "NH-44 Fuel Station", "", "", 200 * day},
	{"CASE-2024-001", "FIR-2024-0012", "Jewellery theft at wedding hall", "Gold ornaments missing from guest room", TypeTheft, StatusClosed, PriorityMedium, "Central PS", "Insp. Ravi Kumar", "Royal Wedding Hall", "District Court I", "Acquitted", 320 * day},
}

// SeedCases returns the demo case register, newest first, timed relative to
// now. Seven of the twelve cases are Active.
func SeedCases(now time.Time) []Case {
	out := make([]Case, 0, len(seedRows))
	for _, row := range seedRows {
		created := now.Add(-row.age).UTC()
		out = append(out, Case{
			ID:          row.id,
			FIRNumber:   row.fir,
			Title:       row.title,
			Description: row.description,
			Type:        row.kind,
			Status:      row.status,
			Priority:    row.priority,
			Station:     row.station,
			Officer:     row.officer,
			Location:    row.location,
			Court:       row.court,
			Verdict:     row.verdict,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}
	return out
}
