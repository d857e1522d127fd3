package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/users"
)

// Directory is the account lookup used for sign-in.
type Directory interface {
	Get(ctx context.Context, userID string) (users.User, error)
	FindByEmail(ctx context.Context, email string) (users.User, error)
	TouchLogin(ctx context.Context, userID string) error
}

// AuditPort records sign-in activity in the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service wraps authentication business rules. All state lives in the
// caller's session; nothing here is process-global.
type Service struct {
	directory Directory
	audit     AuditPort
	latency   time.Duration
}

// NewService constructs a new Service.
func NewService(directory Directory, audit AuditPort) *Service {
	return &Service{directory: directory, audit: audit}
}

// WithLatency delays every login attempt by d.
func (s *Service) WithLatency(d time.Duration) *Service {
	s.latency = d
	return s
}

// Login checks email/password credentials and binds the account to sess,
// acting as its primary role.
func (s *Service) Login(ctx context.Context, sess *shared.Session, email, password string) (shared.Identity, error) {
	if sess == nil {
		return shared.Identity{}, fmt.Errorf("auth: login: session missing")
	}
	if err := s.wait(ctx); err != nil {
		return shared.Identity{}, err
	}
	user, err := s.directory.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil || !user.Active() {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}

	sess.Clear()
	sess.SetUser(user.ID)
	sess.SetActiveRole(user.Role)
	_ = s.directory.TouchLogin(ctx, user.ID)

	id := user.Identity()
	s.recordAudit(shared.ContextWithIdentity(ctx, id), shared.ActionLogin, id.UserID, "signed in")
	return id, nil
}

// Logout drops the account and every view state from sess.
func (s *Service) Logout(ctx context.Context, sess *shared.Session) {
	if sess == nil || sess.User() == "" {
		return
	}
	if id, err := s.Current(ctx, sess); err == nil {
		s.recordAudit(shared.ContextWithIdentity(ctx, id), shared.ActionLogout, id.UserID, "signed out")
	}
	sess.Clear()
}

// Current resolves the identity bound to sess. Disabled or unknown accounts
// are signed out.
func (s *Service) Current(ctx context.Context, sess *shared.Session) (shared.Identity, error) {
	if sess == nil || sess.User() == "" {
		return shared.Identity{}, httpx.ErrUnauthorized
	}
	user, err := s.directory.Get(ctx, sess.User())
	if err != nil || !user.Active() {
		sess.Clear()
		return shared.Identity{}, httpx.ErrUnauthorized
	}
	id := user.Identity()
	if role := sess.ActiveRole(); role != "" && id.CanActAs(role) {
		id.ActiveRole = role
	}
	return id, nil
}

// SwitchContext changes the role the signed-in user acts as.
func (s *Service) SwitchContext(ctx context.Context, sess *shared.Session, role string) (shared.Identity, error) {
	id, err := s.Current(ctx, sess)
	if err != nil {
		return shared.Identity{}, err
	}
	target, ok := shared.ParseRole(role)
	if !ok {
		return shared.Identity{}, fmt.Errorf("auth: switch: %w", httpx.NewValidationError(httpx.InvalidFieldsMessage, "role"))
	}
	if !id.CanActAs(target) {
		return shared.Identity{}, fmt.Errorf("auth: switch to %s: %w", target, shared.ErrRoleNotAssigned)
	}
	previous := id.ActiveRole
	sess.SetActiveRole(target)
	id.ActiveRole = target
	if previous != target {
		s.recordAudit(shared.ContextWithIdentity(ctx, id), shared.ActionSwitchRole, id.UserID, fmt.Sprintf("%s -> %s", previous, target))
	}
	return id, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) recordAudit(ctx context.Context, action, userID, details string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditFromIdentity(ctx, action, shared.EntityAuth, userID, details))
}
