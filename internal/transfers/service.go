package transfers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/platform/id"
	"github.com/casetrail/casetrail/internal/platform/ledger"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/jobs"
)

// Repository describes the record store used by Service.
type Repository interface {
	Snapshot() []Transfer
	Get(id string) (Transfer, error)
	Prepend(t Transfer) error
	Update(id string, fn func(Transfer) (Transfer, error)) (Transfer, error)
}

// CaseLookup confirms that a case exists.
type CaseLookup interface {
	Exists(ctx context.Context, caseID string) bool
}

// AuditPort records changes in the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Notifier queues notices for the receiving department.
type Notifier interface {
	EnqueueTransferNotice(ctx context.Context, payload jobs.TransferNoticePayload) (*asynq.TaskInfo, error)
}

// CreateInput requests a custody transfer.
type CreateInput struct {
	CaseID         string `json:"case_id" validate:"required"`
	FromDepartment string `json:"from_department" validate:"required"`
	ToDepartment   string `json:"to_department" validate:"required"`
	Priority       string `json:"priority" validate:"required"`
	Reason         string `json:"reason" validate:"required"`
}

// UpdateInput edits a transfer. Status edits go through the workflow.
type UpdateInput struct {
	Status   string `json:"status" validate:"required"`
	Priority string `json:"priority" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// Service handles custody transfer business logic.
type Service struct {
	repo      Repository
	flow      *workflow.Machine
	cases     CaseLookup
	audit     AuditPort
	notifier  Notifier
	logger    *slog.Logger
	ids       *id.Sequence
	validator *httpx.Validator
	now       func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, flow *workflow.Machine, cases CaseLookup, audit AuditPort) *Service {
	s := &Service{
		repo:      repo,
		flow:      flow,
		cases:     cases,
		audit:     audit,
		logger:    slog.Default(),
		ids:       id.NewSequence("TRF", 3, true),
		validator: httpx.NewValidator(),
		now:       time.Now,
	}
	for _, t := range repo.Snapshot() {
		s.ids.Observe(t.ID)
	}
	return s
}

// WithNotifier enables notices to the receiving department.
func (s *Service) WithNotifier(n Notifier, logger *slog.Logger) *Service {
	s.notifier = n
	if logger != nil {
		s.logger = logger
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

// Records returns every transfer, newest first.
func (s *Service) Records(ctx context.Context) []Transfer {
	return s.repo.Snapshot()
}

// Get returns one transfer.
func (s *Service) Get(ctx context.Context, transferID string) (Transfer, error) {
	t, err := s.repo.Get(transferID)
	if err != nil {
		return Transfer{}, fmt.Errorf("transfers: get: %w", err)
	}
	return t, nil
}

// Create requests a transfer between two different departments.
func (s *Service) Create(ctx context.Context, input CreateInput) (Transfer, error) {
	input.CaseID = strings.TrimSpace(input.CaseID)
	input.FromDepartment = strings.TrimSpace(input.FromDepartment)
	input.ToDepartment = strings.TrimSpace(input.ToDepartment)
	input.Priority = strings.TrimSpace(input.Priority)
	input.Reason = strings.TrimSpace(input.Reason)
	if err := s.validator.Struct(input); err != nil {
		return Transfer{}, fmt.Errorf("transfers: create: %w", err)
	}
	for _, check := range []error{
		httpx.OneOf("from_department", input.FromDepartment, Departments()),
		httpx.OneOf("to_department", input.ToDepartment, Departments()),
		httpx.OneOf("priority", input.Priority, Priorities()),
	} {
		if check != nil {
			return Transfer{}, fmt.Errorf("transfers: create: %w", check)
		}
	}
	if input.FromDepartment == input.ToDepartment {
		return Transfer{}, fmt.Errorf("transfers: create: %w",
			httpx.NewValidationError("Source and destination must differ", "from_department", "to_department"))
	}
	if s.cases != nil && !s.cases.Exists(ctx, input.CaseID) {
		return Transfer{}, fmt.Errorf("transfers: create: %w", httpx.NewValidationError("Unknown case", "case_id"))
	}
	who, _ := shared.IdentityFromContext(ctx)
	now := s.now().UTC()
	t := Transfer{
		ID:             s.ids.Next(),
		CaseID:         input.CaseID,
		FromDepartment: input.FromDepartment,
		ToDepartment:   input.ToDepartment,
		Status:         s.flow.Initial(workflow.KindTransfer),
		Priority:       input.Priority,
		Reason:         input.Reason,
		RequestedBy:    who.Actor(),
		RequestedAt:    now,
	}
	t.TxHash = ledger.TxHash(t.ID, t.CaseID, t.FromDepartment, t.ToDepartment, now.Format(time.RFC3339Nano))
	if err := s.repo.Prepend(t); err != nil {
		return Transfer{}, fmt.Errorf("transfers: create: %w", err)
	}
	s.recordAudit(ctx, shared.ActionCreate, t.ID, fmt.Sprintf("%s -> %s for %s", t.FromDepartment, t.ToDepartment, t.CaseID))
	s.notify(ctx, t)
	return t, nil
}

// Update changes the status, priority or reason of a transfer.
func (s *Service) Update(ctx context.Context, transferID string, input UpdateInput) (Transfer, error) {
	input.Status = strings.TrimSpace(input.Status)
	input.Priority = strings.TrimSpace(input.Priority)
	input.Reason = strings.TrimSpace(input.Reason)
	if err := s.validator.Struct(input); err != nil {
		return Transfer{}, fmt.Errorf("transfers: update: %w", err)
	}
	if err := httpx.OneOf("priority", input.Priority, Priorities()); err != nil {
		return Transfer{}, fmt.Errorf("transfers: update: %w", err)
	}
	who, _ := shared.IdentityFromContext(ctx)
	var previous string
	updated, err := s.repo.Update(transferID, func(t Transfer) (Transfer, error) {
		if err := s.flow.Check(workflow.KindTransfer, t.Status, input.Status, string(who.ActiveRole)); err != nil {
			return Transfer{}, err
		}
		previous = t.Status
		t.Status = input.Status
		t.Priority = input.Priority
		t.Reason = input.Reason
		return t, nil
	})
	if err != nil {
		return Transfer{}, fmt.Errorf("transfers: update: %w", err)
	}
	details := "details edited"
	if previous != updated.Status {
		details = previous + " -> " + updated.Status
		s.notify(ctx, updated)
	}
	s.recordAudit(ctx, shared.ActionUpdate, updated.ID, details)
	return updated, nil
}

// notify queues a notice for the receiving department. Queue failures are
// logged and never fail the request.
func (s *Service) notify(ctx context.Context, t Transfer) {
	if s.notifier == nil {
		return
	}
	who, _ := shared.IdentityFromContext(ctx)
	payload := jobs.TransferNoticePayload{
		TransferID:     t.ID,
		CaseID:         t.CaseID,
		FromDepartment: t.FromDepartment,
		ToDepartment:   t.ToDepartment,
		Status:         t.Status,
		Priority:       t.Priority,
		Actor:          who.Actor(),
	}
	if _, err := s.notifier.EnqueueTransferNotice(ctx, payload); err != nil {
		s.logger.Warn("enqueue transfer notice", slog.String("transfer_id", t.ID), slog.Any("error", err))
	}
}

func (s *Service) recordAudit(ctx context.Context, action, entityID, details string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditFromIdentity(ctx, action, shared.EntityTransfer, entityID, details))
}
