// Package users manages the officer and staff accounts that can sign in.
package users

import (
	"time"

	"github.com/casetrail/casetrail/internal/listview"
	"github.com/casetrail/casetrail/internal/shared"
)

// Account statuses. Accounts are never deleted, only disabled.
const (
	StatusActive   = "Active"
	StatusDisabled = "Disabled"
)

// User represents a user account for management.
type User struct {
	ID           string        `json:"id"`
	BadgeNumber  string        `json:"badge_number"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         shared.Role   `json:"role"`
	Roles        []shared.Role `json:"roles"`
	Department   string        `json:"department"`
	Status       string        `json:"status"`
	LastLogin    *time.Time    `json:"last_login,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	PasswordHash string        `json:"-"`
}

// RecordID implements records.Identified.
func (u User) RecordID() string { return u.ID }

// Active reports whether the account may sign in.
func (u User) Active() bool { return u.Status == StatusActive }

// Identity converts the account to a request identity acting as its primary
// role.
func (u User) Identity() shared.Identity {
	return shared.Identity{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Roles:      append([]shared.Role(nil), u.Roles...),
		ActiveRole: u.Role,
	}
}

// Definition describes the user list view.
func Definition() listview.Definition[User] {
	return listview.Definition[User]{
		Name: "users",
		Search: []listview.Field[User]{
			func(u User) string { return u.ID },
			func(u User) string { return u.BadgeNumber },
			func(u User) string { return u.Name },
			func(u User) string { return u.Email },
		},
		Categories: map[string]listview.Field[User]{
			"role":       func(u User) string { return string(u.Role) },
			"status":     func(u User) string { return u.Status },
			"department": func(u User) string { return u.Department },
		},
		PageSize:  10,
		PageSizes: listview.PresetPageSizes(),
	}
}
