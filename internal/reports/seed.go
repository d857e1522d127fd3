package reports

import "time"

const day = 24 * time.Hour

// SeedReports returns the demo lab reports, newest first, timed relative to
// now.
func SeedReports(now time.Time) []Report {
	reports := []Report{
		{ID: "RPT-2024-008", CaseID: "CASE-2024-011", EvidenceID: "EV-2024-009", Title: "Blood group and DNA profile", Type: TypeDNA, Status: StatusInProgress, Analyst: "Dr. Anil Menon", Lab: "State Forensic Lab", SubmittedAt: now.Add(-20 * time.Hour)},
		{ID: "RPT-2024-007", CaseID: "CASE-2024-012", EvidenceID: "EV-2024-010", Title: "Disk image and browser history", Type: TypeDigital, Status: StatusPending, Analyst: "Dr. Kavya Iyer", Lab: "Cyber Forensic Lab", SubmittedAt: now.Add(-3 * day)},
		{ID: "RPT-2024-006", CaseID: "CASE-2024-007", EvidenceID: "EV-2024-006", Title: "Blade residue analysis", Type: TypeDNA, Status: StatusPending, Analyst: "Dr. Anil Menon", Lab: "State Forensic Lab", SubmittedAt: now.Add(-8 * day)},
		{ID: "RPT-2024-005", CaseID: "CASE-2024-005", EvidenceID: "EV-2024-005", Title: "CCTV frame enhancement", Type: TypeDigital, Status: StatusCompleted, Analyst: "Dr. Kavya Iyer", Lab: "Cyber Forensic Lab", Findings: "Suspect face recoverable in frames 1820-1900", SubmittedAt: now.Add(-14 * day)},
		{ID: "RPT-2024-004", CaseID: "CASE-2024-010", EvidenceID: "EV-2024-008", Title: "Signature comparison", Type: TypeFingerprint, Status: StatusCompleted, Analyst: "Dr. Anil Menon", Lab: "Questioned Documents Unit", Findings: "Signatures on three leaves do not match specimen", SubmittedAt: now.Add(-22 * day)},
		{ID: "RPT-2024-003", CaseID: "CASE-2024-004", EvidenceID: "EV-2024-004", Title: "Substance identification", Type: TypeToxicology, Status: StatusApproved, Analyst: "Dr. Kavya Iyer", Lab: "State Forensic Lab", Findings: "Heroin, 82% purity", SubmittedAt: now.Add(-60 * day)},
		{ID: "RPT-2024-002", CaseID: "CASE-2024-003", EvidenceID: "EV-2024-003", Title: "Latent print matching", Type: TypeFingerprint, Status: StatusApproved, Analyst: "Dr. Anil Menon", Lab: "Fingerprint Bureau", Findings: "Two lifts match a known offender", SubmittedAt: now.Add(-95 * day)},
		{ID: "RPT-2024-001", CaseID: "CASE-2024-002", EvidenceID: "EV-2024-002", Title: "Firearm test fire", Type: TypeBallistics, Status: StatusRejected, Analyst: "Dr. Kavya Iyer", Lab: "Ballistics Division", Findings: "Sample chain of custody incomplete", SubmittedAt: now.Add(-180 * day)},
	}
	for i := range reports {
		reports[i].SubmittedAt = reports[i].SubmittedAt.UTC()
	}
	return reports
}
