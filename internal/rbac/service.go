package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/casetrail/casetrail/internal/shared"
)

// ErrNotFound indicates that the requested role does not exist.
var ErrNotFound = errors.New("rbac: not found")

// Service resolves permissions from the static role table.
type Service struct{}

// NewService constructs a Service.
func NewService() *Service {
	return &Service{}
}

// ListGrants returns every role with its permissions.
func (s *Service) ListGrants(ctx context.Context) []Grant {
	roles := shared.Roles()
	grants := make([]Grant, 0, len(roles))
	for _, role := range roles {
		grants = append(grants, Grant{Role: role, Permissions: shared.RolePermissions(role)})
	}
	return grants
}

// EffectivePermissions returns the permissions of the role the identity is
// currently acting as. A role the identity does not hold grants nothing.
func (s *Service) EffectivePermissions(ctx context.Context, id shared.Identity) ([]string, error) {
	if id.ActiveRole == "" {
		return nil, nil
	}
	if _, ok := shared.ParseRole(string(id.ActiveRole)); !ok {
		return nil, fmt.Errorf("%w: role %q", ErrNotFound, id.ActiveRole)
	}
	if !id.CanActAs(id.ActiveRole) {
		return nil, nil
	}
	return shared.RolePermissions(id.ActiveRole), nil
}
