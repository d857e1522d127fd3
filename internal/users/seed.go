package users

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casetrail/casetrail/internal/shared"
)

const day = 24 * time.Hour

// SeedUsers returns the demo accounts, newest first. Every account shares
// password, hashed once with cost.
func SeedUsers(now time.Time, password string, cost int) ([]User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("users: hash demo password: %w", err)
	}
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d).UTC()
		return &t
	}
	police := []shared.Role{shared.RolePolice}
	users := []User{
		{ID: "USR-008", BadgeNumber: "FSL-0217", Name: "Dr. Kavya Iyer", Email: "kavya.iyer@forensics.gov.in", Role: shared.RoleForensic, Roles: []shared.Role{shared.RoleForensic}, Department: "Cyber Forensic Lab", Status: StatusActive, LastLogin: ago(5 * time.Hour), CreatedAt: now.Add(-200 * day)},
		{ID: "USR-007", BadgeNumber: "KP-4471", Name: "Const. Suresh Pillai", Email: "suresh.pillai@police.gov.in", Role: shared.RolePolice, Roles: police, Department: "Central Police Station", Status: StatusDisabled, LastLogin: ago(40 * day), CreatedAt: now.Add(-320 * day)},
		{ID: "USR-006", BadgeNumber: "ADM-0001", Name: "Admin Office", Email: "admin@casetrail.gov.in", Role: shared.RoleAdmin, Roles: []shared.Role{shared.RoleAdmin, shared.RolePolice, shared.RoleForensic, shared.RoleJudiciary}, Department: "Records Administration", Status: StatusActive, LastLogin: ago(30 * time.Minute), CreatedAt: now.Add(-400 * day)},
		{ID: "USR-005", BadgeNumber: "KP-3318", Name: "HC Arjun Das", Email: "arjun.das@police.gov.in", Role: shared.RolePolice, Roles: police, Department: "Market Police Station", Status: StatusActive, LastLogin: ago(3 * day), CreatedAt: now.Add(-410 * day)},
		{ID: "USR-004", BadgeNumber: "FSL-0102", Name: "Dr. Anil Menon", Email: "anil.menon@forensics.gov.in", Role: shared.RoleForensic, Roles: []shared.Role{shared.RoleForensic}, Department: "State Forensic Lab", Status: StatusActive, LastLogin: ago(26 * time.Hour), CreatedAt: now.Add(-420 * day)},
		{ID: "USR-003", BadgeNumber: "JUD-0045", Name: "Hon. Justice Priya Sharma", Email: "priya.sharma@courts.gov.in", Role: shared.RoleJudiciary, Roles: []shared.Role{shared.RoleJudiciary}, Department: "District Sessions Court", Status: StatusActive, LastLogin: ago(2 * day), CreatedAt: now.Add(-430 * day)},
		{ID: "USR-002", BadgeNumber: "KP-2093", Name: "SI Meera Nair", Email: "meera.nair@police.gov.in", Role: shared.RolePolice, Roles: police, Department: "Cyber Cell", Status: StatusActive, LastLogin: ago(8 * time.Hour), CreatedAt: now.Add(-440 * day)},
		{ID: "USR-001", BadgeNumber: "KP-1024", Name: "Insp. Ravi Kumar", Email: "ravi.kumar@police.gov.in", Role: shared.RolePolice, Roles: []shared.Role{shared.RolePolice, shared.RoleForensic}, Department: "Central Police Station", Status: StatusActive, LastLogin: ago(2 * time.Hour), CreatedAt: now.Add(-450 * day)},
	}
	for i := range users {
		users[i].CreatedAt = users[i].CreatedAt.UTC()
		users[i].PasswordHash = string(hash)
	}
	return users, nil
}
