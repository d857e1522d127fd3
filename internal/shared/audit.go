package shared

import (
	"context"
	"errors"
	"time"
)

// Audit entity names.
const (
	EntityCase     = "case"
	EntityEvidence = "evidence"
	EntityReport   = "report"
	EntityTransfer = "transfer"
	EntityUser     = "user"
	EntityAuth     = "auth"
	EntityAudit    = "audit"
)

// Audit actions.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionStatusChange = "status_change"
	ActionToggleStatus = "toggle_status"
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionSwitchRole   = "switch_role"
	ActionExport       = "export"
)

// AuditLog describes one action to append to the audit trail.
type AuditLog struct {
	Actor    string
	Role     Role
	Action   string
	Entity   string
	EntityID string
	Details  string
	At       time.Time
}

// Validate checks the fields every trail entry needs.
func (l AuditLog) Validate() error {
	if l.Action == "" || l.Entity == "" || l.EntityID == "" {
		return errors.New("audit log requires action/entity/entity_id")
	}
	return nil
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, log AuditLog) error
}

// AuditFromIdentity starts an AuditLog attributed to the identity in ctx.
func AuditFromIdentity(ctx context.Context, action, entity, entityID, details string) AuditLog {
	log := AuditLog{Actor: "system", Action: action, Entity: entity, EntityID: entityID, Details: details}
	if id, ok := IdentityFromContext(ctx); ok {
		log.Actor = id.Actor()
		log.Role = id.ActiveRole
	}
	return log
}
