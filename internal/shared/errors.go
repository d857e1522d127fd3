package shared

import (
	"errors"
	"fmt"

	"github.com/casetrail/casetrail/internal/platform/httpx"
)

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", httpx.ErrUnauthorized)
	// ErrRoleNotAssigned indicates a context switch to a role the user lacks.
	ErrRoleNotAssigned = fmt.Errorf("role not assigned to user: %w", httpx.ErrForbidden)
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage maps an error to text that may be shown to the user.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrRoleNotAssigned):
		return "You cannot act in that role"
	case errors.Is(err, httpx.ErrValidation):
		return httpx.RequiredFieldsMessage
	case errors.Is(err, httpx.ErrNotFound):
		return "Record not found"
	case errors.Is(err, httpx.ErrForbidden):
		return "You do not have access to this action"
	default:
		return "Something went wrong, please try again"
	}
}
