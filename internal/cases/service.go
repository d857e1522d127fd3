package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/platform/id"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/workflow"
)

// Repository describes the record store used by Service.
type Repository interface {
	Snapshot() []Case
	Get(id string) (Case, error)
	Prepend(c Case) error
	Update(id string, fn func(Case) (Case, error)) (Case, error)
}

// AuditPort records changes in the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CreateInput is the case intake form.
type CreateInput struct {
	FIRNumber   string `json:"fir_number"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required"`
	Priority    string `json:"priority" validate:"required"`
	Station     string `json:"station" validate:"required"`
	Officer     string `json:"officer"`
	Location    string `json:"location" validate:"required"`
}

// UpdateInput is the case edit form. Status edits go through the workflow
// like ChangeStatus.
type UpdateInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Priority    string `json:"priority" validate:"required"`
	Station     string `json:"station" validate:"required"`
	Officer     string `json:"officer" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Court       string `json:"court"`
	Verdict     string `json:"verdict"`
}

// StatusInput moves a case to another status.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

// Service handles case business logic.
type Service struct {
	repo      Repository
	flow      *workflow.Machine
	audit     AuditPort
	ids       *id.Sequence
	firs      *id.Sequence
	validator *httpx.Validator
	now       func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, flow *workflow.Machine, audit AuditPort) *Service {
	s := &Service{
		repo:      repo,
		flow:      flow,
		audit:     audit,
		ids:       id.NewSequence("CASE", 3, true),
		firs:      id.NewSequence("FIR", 4, true),
		validator: httpx.NewValidator(),
		now:       time.Now,
	}
	for _, c := range repo.Snapshot() {
		s.ids.Observe(c.ID)
		s.firs.Observe(c.FIRNumber)
	}
	return s
}

// WithClock overrides the clock used for timestamps and new ids.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
		s.ids.WithClock(now)
		s.firs.WithClock(now)
	}
	return s
}

// Records returns every case, newest first.
func (s *Service) Records(ctx context.Context) []Case {
	return s.repo.Snapshot()
}

// Get returns one case.
func (s *Service) Get(ctx context.Context, caseID string) (Case, error) {
	c, err := s.repo.Get(caseID)
	if err != nil {
		return Case{}, fmt.Errorf("cases: get: %w", err)
	}
	return c, nil
}

// Exists reports whether caseID is registered.
func (s *Service) Exists(ctx context.Context, caseID string) bool {
	_, err := s.repo.Get(caseID)
	return err == nil
}

// NextStatuses lists the statuses the current identity may move c to.
func (s *Service) NextStatuses(ctx context.Context, c Case) []string {
	return s.flow.Next(workflow.KindCase, c.Status, activeRole(ctx))
}

// Create registers a new case in the initial workflow status.
func (s *Service) Create(ctx context.Context, input CreateInput) (Case, error) {
	input = trimCreate(input)
	if err := s.validator.Struct(input); err != nil {
		return Case{}, fmt.Errorf("cases: create: %w", err)
	}
	if err := checkEnums(input.Type, input.Priority); err != nil {
		return Case{}, fmt.Errorf("cases: create: %w", err)
	}
	officer := input.Officer
	if officer == "" {
		if who, ok := shared.IdentityFromContext(ctx); ok {
			officer = who.Actor()
		}
	}
	fir := input.FIRNumber
	if fir == "" {
		fir = s.firs.Next()
	}
	now := s.now().UTC()
	c := Case{
		ID:          s.ids.Next(),
		FIRNumber:   fir,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      s.flow.Initial(workflow.KindCase),
		Priority:    input.Priority,
		Station:     input.Station,
		Officer:     officer,
		Location:    input.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Prepend(c); err != nil {
		return Case{}, fmt.Errorf("cases: create: %w", err)
	}
	s.recordAudit(ctx, shared.ActionCreate, c.ID, c.Title)
	return c, nil
}

// Update replaces the editable fields of a case.
func (s *Service) Update(ctx context.Context, caseID string, input UpdateInput) (Case, error) {
	input = trimUpdate(input)
	if err := s.validator.Struct(input); err != nil {
		return Case{}, fmt.Errorf("cases: update: %w", err)
	}
	if err := checkEnums(input.Type, input.Priority); err != nil {
		return Case{}, fmt.Errorf("cases: update: %w", err)
	}
	role := activeRole(ctx)
	var previous string
	updated, err := s.repo.Update(caseID, func(c Case) (Case, error) {
		if err := s.flow.Check(workflow.KindCase, c.Status, input.Status, role); err != nil {
			return Case{}, err
		}
		previous = c.Status
		c.Title = input.Title
		c.Description = input.Description
		c.Type = input.Type
		c.Status = input.Status
		c.Priority = input.Priority
		c.Station = input.Station
		c.Officer = input.Officer
		c.Location = input.Location
		c.Court = input.Court
		c.Verdict = input.Verdict
		c.UpdatedAt = s.now().UTC()
		return c, nil
	})
	if err != nil {
		return Case{}, fmt.Errorf("cases: update: %w", err)
	}
	details := "details edited"
	if previous != updated.Status {
		details = previous + " -> " + updated.Status
	}
	s.recordAudit(ctx, shared.ActionUpdate, updated.ID, details)
	return updated, nil
}

// ChangeStatus moves a case to input.Status.
func (s *Service) ChangeStatus(ctx context.Context, caseID string, input StatusInput) (Case, error) {
	input.Status = strings.TrimSpace(input.Status)
	if err := s.validator.Struct(input); err != nil {
		return Case{}, fmt.Errorf("cases: change status: %w", err)
	}
	role := activeRole(ctx)
	var previous string
	updated, err := s.repo.Update(caseID, func(c Case) (Case, error) {
		if err := s.flow.Check(workflow.KindCase, c.Status, input.Status, role); err != nil {
			return Case{}, err
		}
		previous = c.Status
		c.Status = input.Status
		c.UpdatedAt = s.now().UTC()
		return c, nil
	})
	if err != nil {
		return Case{}, fmt.Errorf("cases: change status: %w", err)
	}
	details := previous + " -> " + updated.Status
	if note := strings.TrimSpace(input.Note); note != "" {
		details += ": " + note
	}
	s.recordAudit(ctx, shared.ActionStatusChange, updated.ID, details)
	return updated, nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID, details string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditFromIdentity(ctx, action, shared.EntityCase, entityID, details))
}

func activeRole(ctx context.Context) string {
	who, _ := shared.IdentityFromContext(ctx)
	return string(who.ActiveRole)
}

func checkEnums(kind, priority string) error {
	if err := httpx.OneOf("type", kind, Types()); err != nil {
		return err
	}
	return httpx.OneOf("priority", priority, Priorities())
}

func trimCreate(in CreateInput) CreateInput {
	in.FIRNumber = strings.TrimSpace(in.FIRNumber)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Type = strings.TrimSpace(in.Type)
	in.Priority = strings.TrimSpace(in.Priority)
	in.Station = strings.TrimSpace(in.Station)
	in.Officer = strings.TrimSpace(in.Officer)
	in.Location = strings.TrimSpace(in.Location)
	return in
}

func trimUpdate(in UpdateInput) UpdateInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Type = strings.TrimSpace(in.Type)
	in.Status = strings.TrimSpace(in.Status)
	in.Priority = strings.TrimSpace(in.Priority)
	in.Station = strings.TrimSpace(in.Station)
	in.Officer = strings.TrimSpace(in.Officer)
	in.Location = strings.TrimSpace(in.Location)
	in.Court = strings.TrimSpace(in.Court)
	in.Verdict = strings.TrimSpace(in.Verdict)
	return in
}
