package shared

import "strings"

// Role is the department a user acts for.
type Role string

// Roles known to the platform.
const (
	RolePolice    Role = "Police"
	RoleForensic  Role = "Forensic"
	RoleJudiciary Role = "Judiciary"
	RoleAdmin     Role = "Admin"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RolePolice, RoleForensic, RoleJudiciary, RoleAdmin}
}

// ParseRole matches s case-insensitively against the known roles.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Roles() {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// Permissions.
const (
	PermDashboardView = "dashboard.view"

	PermCasesView = "cases.view"
	PermCasesEdit = "cases.edit"

	PermEvidenceView = "evidence.view"
	PermEvidenceEdit = "evidence.edit"

	PermReportsView = "reports.view"
	PermReportsEdit = "reports.edit"

	PermTransfersView = "transfers.view"
	PermTransfersEdit = "transfers.edit"

	PermUsersView = "users.view"
	PermUsersEdit = "users.edit"

	PermAuditView   = "audit.view"
	PermAuditExport = "audit.export"
)

var rolePermissions = map[Role][]string{
	RolePolice: {
		PermDashboardView,
		PermCasesView, PermCasesEdit,
		PermEvidenceView, PermEvidenceEdit,
		PermReportsView,
		PermTransfersView, PermTransfersEdit,
		PermAuditView,
	},
	RoleForensic: {
		PermDashboardView,
		PermCasesView,
		PermEvidenceView, PermEvidenceEdit,
		PermReportsView, PermReportsEdit,
		PermTransfersView, PermTransfersEdit,
		PermAuditView,
	},
	RoleJudiciary: {
		PermDashboardView,
		PermCasesView, PermCasesEdit,
		PermEvidenceView,
		PermReportsView,
		PermTransfersView, PermTransfersEdit,
		PermAuditView, PermAuditExport,
	},
	RoleAdmin: {
		PermDashboardView,
		PermCasesView, PermCasesEdit,
		PermEvidenceView, PermEvidenceEdit,
		PermReportsView, PermReportsEdit,
		PermTransfersView, PermTransfersEdit,
		PermUsersView, PermUsersEdit,
		PermAuditView, PermAuditExport,
	},
}

// RolePermissions returns the permissions granted to role.
func RolePermissions(role Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
