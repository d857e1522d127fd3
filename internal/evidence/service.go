package evidence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/platform/id"
	"github.com/casetrail/casetrail/internal/platform/ledger"
	"github.com/casetrail/casetrail/internal/shared"
)

// Repository describes the record store used by Service.
type Repository interface {
	Snapshot() []Item
	Get(id string) (Item, error)
	Prepend(item Item) error
	Update(id string, fn func(Item) (Item, error)) (Item, error)
	Filter(keep func(Item) bool) []Item
}

// CaseLookup confirms that a case exists.
type CaseLookup interface {
	Exists(ctx context.Context, caseID string) bool
}

// AuditPort records changes in the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CreateInput is the payload for logging a new item.
type CreateInput struct {
	CaseID      string `json:"case_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required"`
	CollectedBy string `json:"collected_by"`
	Location    string `json:"location" validate:"required"`
}

// UpdateInput replaces the editable fields of an item.
type UpdateInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Location    string `json:"location" validate:"required"`
}

// Service handles evidence business logic.
type Service struct {
	repo      Repository
	cases     CaseLookup
	audit     AuditPort
	ids       *id.Sequence
	validator *httpx.Validator
	now       func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, cases CaseLookup, audit AuditPort) *Service {
	s := &Service{
		repo:      repo,
		cases:     cases,
		audit:     audit,
		ids:       id.NewSequence("EV", 3, true),
		validator: httpx.NewValidator(),
		now:       time.Now,
	}
	for _, item := range repo.Snapshot() {
		s.ids.Observe(item.ID)
	}
	return s
}

// WithClock overrides the clock used for timestamps and new ids.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
		s.ids.WithClock(now)
	}
	return s
}

// Records returns every item, newest first.
func (s *Service) Records(ctx context.Context) []Item {
	return s.repo.Snapshot()
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, itemID string) (Item, error) {
	item, err := s.repo.Get(itemID)
	if err != nil {
		return Item{}, fmt.Errorf("evidence: get: %w", err)
	}
	return item, nil
}

// ForCase returns the items attached to caseID.
func (s *Service) ForCase(ctx context.Context, caseID string) []Item {
	return s.repo.Filter(func(i Item) bool { return i.CaseID == caseID })
}

// Create logs a new item against an existing case.
func (s *Service) Create(ctx context.Context, input CreateInput) (Item, error) {
	input = trimCreate(input)
	if err := s.validator.Struct(input); err != nil {
		return Item{}, fmt.Errorf("evidence: create: %w", err)
	}
	if err := httpx.OneOf("type", input.Type, Types()); err != nil {
		return Item{}, fmt.Errorf("evidence: create: %w", err)
	}
	if s.cases != nil && !s.cases.Exists(ctx, input.CaseID) {
		return Item{}, fmt.Errorf("evidence: create: %w", httpx.NewValidationError("Unknown case", "case_id"))
	}
	collectedBy := input.CollectedBy
	if collectedBy == "" {
		if who, ok := shared.IdentityFromContext(ctx); ok {
			collectedBy = who.Actor()
		}
	}
	now := s.now().UTC()
	item := Item{
		ID:          s.ids.Next(),
		CaseID:      input.CaseID,
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		Status:      StatusCollected,
		CollectedBy: collectedBy,
		Location:    input.Location,
		CollectedAt: now,
	}
	item.Hash = ledger.Digest(item.ID, item.CaseID, item.Name, item.Type, now.Format(time.RFC3339Nano))
	if err := s.repo.Prepend(item); err != nil {
		return Item{}, fmt.Errorf("evidence: create: %w", err)
	}
	s.recordAudit(ctx, shared.ActionCreate, item.ID, fmt.Sprintf("%s logged for %s", item.Name, item.CaseID))
	return item, nil
}

// Update replaces the editable fields of an item.
func (s *Service) Update(ctx context.Context, itemID string, input UpdateInput) (Item, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Type = strings.TrimSpace(input.Type)
	input.Status = strings.TrimSpace(input.Status)
	input.Location = strings.TrimSpace(input.Location)
	if err := s.validator.Struct(input); err != nil {
		return Item{}, fmt.Errorf("evidence: update: %w", err)
	}
	if err := httpx.OneOf("type", input.Type, Types()); err != nil {
		return Item{}, fmt.Errorf("evidence: update: %w", err)
	}
	if err := httpx.OneOf("status", input.Status, Statuses()); err != nil {
		return Item{}, fmt.Errorf("evidence: update: %w", err)
	}
	var previous string
	updated, err := s.repo.Update(itemID, func(item Item) (Item, error) {
		previous = item.Status
		item.Name = input.Name
		item.Description = input.Description
		item.Type = input.Type
		item.Status = input.Status
		item.Location = input.Location
		return item, nil
	})
	if err != nil {
		return Item{}, fmt.Errorf("evidence: update: %w", err)
	}
	details := "details edited"
	if previous != updated.Status {
		details = previous + " -> " + updated.Status
	}
	s.recordAudit(ctx, shared.ActionUpdate, updated.ID, details)
	return updated, nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID, details string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditFromIdentity(ctx, action, shared.EntityEvidence, entityID, details))
}

func trimCreate(in CreateInput) CreateInput {
	in.CaseID = strings.TrimSpace(in.CaseID)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Type = strings.TrimSpace(in.Type)
	in.CollectedBy = strings.TrimSpace(in.CollectedBy)
	in.Location = strings.TrimSpace(in.Location)
	return in
}
