package rbac

import "github.com/casetrail/casetrail/internal/shared"

// Grant lists the permissions one role carries.
type Grant struct {
	Role        shared.Role `json:"role"`
	Permissions []string    `json:"permissions"`
}

// Principal describes the authenticated actor.
type Principal interface {
	Actor() string
	CanActAs(role shared.Role) bool
}

var _ Principal = shared.Identity{}
