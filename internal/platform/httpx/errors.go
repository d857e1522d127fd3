// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// ValidationError lists the fields that failed validation. It unwraps to
// ErrValidation.
type ValidationError struct {
	Message string
	Fields  []string
}

// NewValidationError builds a ValidationError for the given fields.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// errorStatus maps each sentinel to its status and problem title, in match
// order.
var errorStatus = []struct {
	err    error
	status int
	title  string
}{
	{ErrNotFound, http.StatusNotFound, "Not Found"},
	{ErrDuplicate, http.StatusConflict, "Duplicate"},
	{ErrConflict, http.StatusConflict, "Conflict"},
	{ErrValidation, http.StatusBadRequest, "Validation Failed"},
	{ErrForbidden, http.StatusForbidden, "Forbidden"},
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
}

// RespondError writes err as a problem response. Errors outside the
// sentinel set become a 500 with no detail.
func RespondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeProblem(w, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: verr.Message,
			Fields: verr.Fields,
		})
		return
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			Problem(w, m.status, m.title, err.Error())
			return
		}
	}
	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
