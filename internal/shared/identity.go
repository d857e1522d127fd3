package shared

import "slices"

// Identity is the signed-in user as seen by handlers. It is resolved per
// request from the session and passed along in the request context.
type Identity struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Roles      []Role `json:"roles"`
	ActiveRole Role   `json:"active_role"`
}

// CanActAs reports whether role is one of the identity's roles.
func (i Identity) CanActAs(role Role) bool {
	return slices.Contains(i.Roles, role)
}

// Actor returns the label recorded in the audit trail.
func (i Identity) Actor() string {
	if i.Name != "" {
		return i.Name
	}
	if i.UserID != "" {
		return i.UserID
	}
	return "system"
}
