package users

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/platform/id"
	"github.com/casetrail/casetrail/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Snapshot() []User
	Get(id string) (User, error)
	Prepend(u User) error
	Update(id string, fn func(User) (User, error)) (User, error)
	Filter(keep func(User) bool) []User
}

// AuditPort records changes in the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CreateInput registers an account. An empty password gives the account the
// shared demo credential.
type CreateInput struct {
	BadgeNumber string   `json:"badge_number" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Role        string   `json:"role" validate:"required"`
	Roles       []string `json:"roles"`
	Department  string   `json:"department" validate:"required"`
	Password    string   `json:"password" validate:"omitempty,min=8"`
}

// UpdateInput edits an account. Status changes go through ToggleStatus.
type UpdateInput struct {
	BadgeNumber string   `json:"badge_number" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Role        string   `json:"role" validate:"required"`
	Roles       []string `json:"roles"`
	Department  string   `json:"department" validate:"required"`
}

// Service handles user business logic.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	ids         *id.Sequence
	validator   *httpx.Validator
	defaultHash string
	cost        int
	now         func() time.Time
	// mu serialises writes that check email and badge uniqueness.
	mu sync.Mutex
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	s := &Service{
		repo:      repo,
		audit:     audit,
		ids:       id.NewSequence("USR", 3, false),
		validator: httpx.NewValidator(),
		cost:      bcrypt.DefaultCost,
		now:       time.Now,
	}
	for _, u := range repo.Snapshot() {
		s.ids.Observe(u.ID)
		if s.defaultHash == "" {
			s.defaultHash = u.PasswordHash
		}
	}
	return s
}

// WithClock overrides the clock used for timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithHashCost sets the bcrypt cost for passwords set through Create.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// Records returns every account, newest first.
func (s *Service) Records(ctx context.Context) []User {
	return s.repo.Snapshot()
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	u, err := s.repo.Get(userID)
	if err != nil {
		return User{}, fmt.Errorf("users: get: %w", err)
	}
	return u, nil
}

// FindByEmail looks an account up by email, ignoring case.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(email)
	matches := s.repo.Filter(func(u User) bool { return strings.EqualFold(u.Email, email) })
	if len(matches) == 0 {
		return User{}, fmt.Errorf("users: find by email: %w", httpx.ErrNotFound)
	}
	return matches[0], nil
}

// TouchLogin stamps the last sign-in time.
func (s *Service) TouchLogin(ctx context.Context, userID string) error {
	_, err := s.repo.Update(userID, func(u User) (User, error) {
		at := s.now().UTC()
		u.LastLogin = &at
		return u, nil
	})
	if err != nil {
		return fmt.Errorf("users: touch login: %w", err)
	}
	return nil
}

// Create registers an active account.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	input.BadgeNumber = strings.TrimSpace(input.BadgeNumber)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Role = strings.TrimSpace(input.Role)
	input.Department = strings.TrimSpace(input.Department)
	if err := s.validator.Struct(input); err != nil {
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	role, roles, err := parseRoles(input.Role, input.Roles)
	if err != nil {
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	hash := s.defaultHash
	if input.Password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
		if err != nil {
			return User{}, fmt.Errorf("users: create: hash password: %w", err)
		}
		hash = string(raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique("", input.Email, input.BadgeNumber); err != nil {
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	u := User{
		ID:           s.ids.Next(),
		BadgeNumber:  input.BadgeNumber,
		Name:         input.Name,
		Email:        input.Email,
		Role:         role,
		Roles:        roles,
		Department:   input.Department,
		Status:       StatusActive,
		CreatedAt:    s.now().UTC(),
		PasswordHash: hash,
	}
	if err := s.repo.Prepend(u); err != nil {
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	s.recordAudit(ctx, shared.ActionCreate, u.ID, "account created")
	return u, nil
}

// Update replaces the profile fields of an account.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (User, error) {
	input.BadgeNumber = strings.TrimSpace(input.BadgeNumber)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Role = strings.TrimSpace(input.Role)
	input.Department = strings.TrimSpace(input.Department)
	if err := s.validator.Struct(input); err != nil {
		return User{}, fmt.Errorf("users: update: %w", err)
	}
	role, roles, err := parseRoles(input.Role, input.Roles)
	if err != nil {
		return User{}, fmt.Errorf("users: update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(userID, input.Email, input.BadgeNumber); err != nil {
		return User{}, fmt.Errorf("users: update: %w", err)
	}
	updated, err := s.repo.Update(userID, func(u User) (User, error) {
		u.BadgeNumber = input.BadgeNumber
		u.Name = input.Name
		u.Email = input.Email
		u.Role = role
		u.Roles = roles
		u.Department = input.Department
		return u, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("users: update: %w", err)
	}
	s.recordAudit(ctx, shared.ActionUpdate, updated.ID, "profile edited")
	return updated, nil
}

// ToggleStatus flips an account between Active and Disabled. Users cannot
// disable their own account.
func (s *Service) ToggleStatus(ctx context.Context, userID string) (User, error) {
	if who, ok := shared.IdentityFromContext(ctx); ok && who.UserID == userID {
		return User{}, fmt.Errorf("users: toggle status: cannot disable own account: %w", httpx.ErrConflict)
	}
	var previous string
	updated, err := s.repo.Update(userID, func(u User) (User, error) {
		previous = u.Status
		if u.Active() {
			u.Status = StatusDisabled
		} else {
			u.Status = StatusActive
		}
		return u, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("users: toggle status: %w", err)
	}
	s.recordAudit(ctx, shared.ActionToggleStatus, updated.ID, previous+" -> "+updated.Status)
	return updated, nil
}

func (s *Service) checkUnique(selfID, email, badge string) error {
	clash := s.repo.Filter(func(u User) bool {
		return u.ID != selfID && (strings.EqualFold(u.Email, email) || strings.EqualFold(u.BadgeNumber, badge))
	})
	if len(clash) > 0 {
		return fmt.Errorf("email or badge number already registered to %s: %w", clash[0].ID, httpx.ErrDuplicate)
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID, details string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditFromIdentity(ctx, action, shared.EntityUser, entityID, details))
}

// parseRoles resolves the primary role and the switchable role set, which
// always contains the primary role.
func parseRoles(primary string, extra []string) (shared.Role, []shared.Role, error) {
	role, ok := shared.ParseRole(primary)
	if !ok {
		return "", nil, httpx.NewValidationError(httpx.InvalidFieldsMessage, "role")
	}
	roles := []shared.Role{role}
	for _, raw := range extra {
		r, ok := shared.ParseRole(raw)
		if !ok {
			return "", nil, httpx.NewValidationError(httpx.InvalidFieldsMessage, "roles")
		}
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return role, roles, nil
}
