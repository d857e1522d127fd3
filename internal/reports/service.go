package reports

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/platform/id"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/jobs"
)

// Repository describes the record store used by Service.
type Repository interface {
	Snapshot() []Report
	Get(id string) (Report, error)
	Prepend(r Report) error
	Update(id string, fn func(Report) (Report, error)) (Report, error)
}

// CaseLookup confirms that a case exists.
type CaseLookup interface {
	Exists(ctx context.Context, caseID string) bool
}

// AuditPort records changes in the audit trail.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Notifier queues lab desk notices.
type Notifier interface {
	EnqueueReportNotice(ctx context.Context, payload jobs.ReportNoticePayload) (*asynq.TaskInfo, error)
}

// CreateInput requests a new lab analysis.
type CreateInput struct {
	CaseID     string `json:"case_id" validate:"required"`
	EvidenceID string `json:"evidence_id" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Type       string `json:"type" validate:"required"`
	Analyst    string `json:"analyst"`
	Lab        string `json:"lab" validate:"required"`
}

// UpdateInput edits a report. Status edits go through the workflow.
type UpdateInput struct {
	Title    string `json:"title" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Status   string `json:"status" validate:"required"`
	Analyst  string `json:"analyst" validate:"required"`
	Lab      string `json:"lab" validate:"required"`
	Findings string `json:"findings"`
}

// Service handles lab report business logic.
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
		ids:       id.NewSequence("RPT", 3, true),
		validator: httpx.NewValidator(),
		now:       time.Now,
	}
	for _, r := range repo.Snapshot() {
		s.ids.Observe(r.ID)
	}
	return s
}

// WithNotifier enables lab desk notices for finished reports.
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

// Records returns every report, newest first.
func (s *Service) Records(ctx context.Context) []Report {
	return s.repo.Snapshot()
}

// Get returns one report.
func (s *Service) Get(ctx context.Context, reportID string) (Report, error) {
	r, err := s.repo.Get(reportID)
	if err != nil {
		return Report{}, fmt.Errorf("reports: get: %w", err)
	}
	return r, nil
}

// Create files a new analysis request in the initial workflow status.
func (s *Service) Create(ctx context.Context, input CreateInput) (Report, error) {
	input.CaseID = strings.TrimSpace(input.CaseID)
	input.EvidenceID = strings.TrimSpace(input.EvidenceID)
	input.Title = strings.TrimSpace(input.Title)
	input.Type = strings.TrimSpace(input.Type)
	input.Analyst = strings.TrimSpace(input.Analyst)
	input.Lab = strings.TrimSpace(input.Lab)
	if err := s.validator.Struct(input); err != nil {
		return Report{}, fmt.Errorf("reports: create: %w", err)
	}
	if err := httpx.OneOf("type", input.Type, Types()); err != nil {
		return Report{}, fmt.Errorf("reports: create: %w", err)
	}
	if s.cases != nil && !s.cases.Exists(ctx, input.CaseID) {
		return Report{}, fmt.Errorf("reports: create: %w", httpx.NewValidationError("Unknown case", "case_id"))
	}
	analyst := input.Analyst
	if analyst == "" {
		if who, ok := shared.IdentityFromContext(ctx); ok {
			analyst = who.Actor()
		}
	}
	r := Report{
		ID:          s.ids.Next(),
		CaseID:      input.CaseID,
		EvidenceID:  input.EvidenceID,
		Title:       input.Title,
		Type:        input.Type,
		Status:      s.flow.Initial(workflow.KindReport),
		Analyst:     analyst,
		Lab:         input.Lab,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.repo.Prepend(r); err != nil {
		return Report{}, fmt.Errorf("reports: create: %w", err)
	}
	s.recordAudit(ctx, shared.ActionCreate, r.ID, fmt.Sprintf("%s requested for %s", r.Type, r.EvidenceID))
	return r, nil
}

// Update replaces the editable fields of a report.
func (s *Service) Update(ctx context.Context, reportID string, input UpdateInput) (Report, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Type = strings.TrimSpace(input.Type)
	input.Status = strings.TrimSpace(input.Status)
	input.Analyst = strings.TrimSpace(input.Analyst)
	input.Lab = strings.TrimSpace(input.Lab)
	input.Findings = strings.TrimSpace(input.Findings)
	if err := s.validator.Struct(input); err != nil {
		return Report{}, fmt.Errorf("reports: update: %w", err)
	}
	if err := httpx.OneOf("type", input.Type, Types()); err != nil {
		return Report{}, fmt.Errorf("reports: update: %w", err)
	}
	who, _ := shared.IdentityFromContext(ctx)
	var previous string
	updated, err := s.repo.Update(reportID, func(r Report) (Report, error) {
		if err := s.flow.Check(workflow.KindReport, r.Status, input.Status, string(who.ActiveRole)); err != nil {
			return Report{}, err
		}
		previous = r.Status
		r.Title = input.Title
		r.Type = input.Type
		r.Status = input.Status
		r.Analyst = input.Analyst
		r.Lab = input.Lab
		r.Findings = input.Findings
		return r, nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("reports: update: %w", err)
	}
	details := "details edited"
	if previous != updated.Status {
		details = previous + " -> " + updated.Status
		s.notify(ctx, updated)
	}
	s.recordAudit(ctx, shared.ActionUpdate, updated.ID, details)
	return updated, nil
}

// notify queues a notice when a report reaches a finished status. Queue
// failures are logged and never fail the edit.
func (s *Service) notify(ctx context.Context, r Report) {
	if s.notifier == nil || (r.Status != StatusCompleted && r.Status != StatusApproved) {
		return
	}
	who, _ := shared.IdentityFromContext(ctx)
	payload := jobs.ReportNoticePayload{
		ReportID: r.ID,
		CaseID:   r.CaseID,
		Status:   r.Status,
		Analyst:  r.Analyst,
		Actor:    who.Actor(),
	}
	if _, err := s.notifier.EnqueueReportNotice(ctx, payload); err != nil {
		s.logger.Warn("enqueue report notice", slog.String("report_id", r.ID), slog.Any("error", err))
	}
}

func (s *Service) recordAudit(ctx context.Context, action, entityID, details string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditFromIdentity(ctx, action, shared.EntityReport, entityID, details))
}
