package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/casetrail/casetrail/internal/audit"
	audithttp "github.com/casetrail/casetrail/internal/audit/http"
	"github.com/casetrail/casetrail/internal/auth"
	"github.com/casetrail/casetrail/internal/cases"
	"github.com/casetrail/casetrail/internal/dashboard"
	"github.com/casetrail/casetrail/internal/evidence"
	"github.com/casetrail/casetrail/internal/observability"
	"github.com/casetrail/casetrail/internal/rbac"
	"github.com/casetrail/casetrail/internal/records"
	"github.com/casetrail/casetrail/internal/reports"
	"github.com/casetrail/casetrail/internal/shared"
	"github.com/casetrail/casetrail/internal/transfers"
	"github.com/casetrail/casetrail/internal/users"
	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/jobs"
)

// PagesConfig controls how the in-memory pages are seeded.
type PagesConfig struct {
	Logger       *slog.Logger
	Now          time.Time
	WorkflowMode workflow.Mode
	DemoPassword string
	HashCost     int
	LoginLatency time.Duration
	Jobs         *jobs.Client
	Metrics      *observability.Metrics
}

// Pages holds one service per record page, all seeded at start-up.
type Pages struct {
	Workflow  *workflow.Machine
	Audit     *audit.Service
	Cases     *cases.Service
	Evidence  *evidence.Service
	Reports   *reports.Service
	Transfers *transfers.Service
	Users     *users.Service
	Dashboard *dashboard.Service
	Auth      *auth.Service
	RBAC      *rbac.Service
}

// NewPages seeds every collection relative to cfg.Now and wires the
// services together.
func NewPages(cfg PagesConfig) (*Pages, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	flow, err := workflow.Load(cfg.WorkflowMode)
	if err != nil {
		return nil, fmt.Errorf("app: load workflow: %w", err)
	}
	trail, err := audit.NewService(audit.SeedEntries(cfg.Now))
	if err != nil {
		return nil, fmt.Errorf("app: seed audit: %w", err)
	}

	caseRepo, err := records.NewCollection(cases.SeedCases(cfg.Now))
	if err != nil {
		return nil, fmt.Errorf("app: seed cases: %w", err)
	}
	evidenceRepo, err := records.NewCollection(evidence.SeedItems(cfg.Now))
	if err != nil {
		return nil, fmt.Errorf("app: seed evidence: %w", err)
	}
	reportRepo, err := records.NewCollection(reports.SeedReports(cfg.Now))
	if err != nil {
		return nil, fmt.Errorf("app: seed reports: %w", err)
	}
	transferRepo, err := records.NewCollection(transfers.SeedTransfers(cfg.Now))
	if err != nil {
		return nil, fmt.Errorf("app: seed transfers: %w", err)
	}
	seedUsers, err := users.SeedUsers(cfg.Now, cfg.DemoPassword, cfg.HashCost)
	if err != nil {
		return nil, err
	}
	userRepo, err := records.NewCollection(seedUsers)
	if err != nil {
		return nil, fmt.Errorf("app: seed users: %w", err)
	}

	p := &Pages{Workflow: flow, Audit: trail}
	p.Cases = cases.NewService(caseRepo, flow, trail)
	p.Evidence = evidence.NewService(evidenceRepo, p.Cases, trail)
	p.Reports = reports.NewService(reportRepo, flow, p.Cases, trail)
	p.Transfers = transfers.NewService(transferRepo, flow, p.Cases, trail)
	p.Users = users.NewService(userRepo, trail).WithHashCost(cfg.HashCost)
	p.Auth = auth.NewService(p.Users, trail).WithLatency(cfg.LoginLatency)
	p.RBAC = rbac.NewService()
	if cfg.Jobs != nil {
		p.Reports.WithNotifier(cfg.Jobs, cfg.Logger)
		p.Transfers.WithNotifier(cfg.Jobs, cfg.Logger)
	}

	p.Dashboard = dashboard.NewService(trail,
		dashboard.CountBy("cases", p.Cases.Records, func(c cases.Case) string { return c.Status }),
		dashboard.CountBy("evidence", p.Evidence.Records, func(i evidence.Item) string { return i.Status }),
		dashboard.CountBy("reports", p.Reports.Records, func(r reports.Report) string { return r.Status }),
		dashboard.CountBy("transfers", p.Transfers.Records, func(t transfers.Transfer) string { return t.Status }),
		dashboard.CountBy("users", p.Users.Records, func(u users.User) string { return u.Status }),
	)

	if cfg.Metrics != nil {
		cfg.Metrics.TrackRecords("cases", caseRepo.Len)
		cfg.Metrics.TrackRecords("evidence", evidenceRepo.Len)
		cfg.Metrics.TrackRecords("reports", reportRepo.Len)
		cfg.Metrics.TrackRecords("transfers", transferRepo.Len)
		cfg.Metrics.TrackRecords("users", userRepo.Len)
		cfg.Metrics.TrackRecords("audit", func() int { return len(trail.Records(context.Background())) })
	}
	return p, nil
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth        *auth.Handler
	Cases       *cases.Handler
	Evidence    *evidence.Handler
	Reports     *reports.Handler
	Transfers   *transfers.Handler
	Users       *users.Handler
	Audit       *audithttp.Handler
	Dashboard   *dashboard.Handler
	Permissions *rbac.PermissionsHandler
	Jobs        *jobs.Handler
}

// Handlers builds one handler per page. A nil inspector leaves the
// queue health endpoint unmounted.
func (p *Pages) Handlers(logger *slog.Logger, csrf *shared.CSRFManager, inspector jobs.QueueInspector) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	mw := p.RBACMiddleware(logger)
	h := Handlers{
		Auth:        auth.NewHandler(logger, p.Auth, p.RBAC, csrf),
		Cases:       cases.NewHandler(logger, p.Cases, p.Evidence, mw),
		Evidence:    evidence.NewHandler(logger, p.Evidence, mw),
		Reports:     reports.NewHandler(logger, p.Reports, mw),
		Transfers:   transfers.NewHandler(logger, p.Transfers, mw),
		Users:       users.NewHandler(logger, p.Users, mw),
		Audit:       audithttp.NewHandler(logger, p.Audit, audit.NewExporter("CaseTrail Audit Trail"), mw),
		Dashboard:   dashboard.NewHandler(logger, p.Dashboard, mw),
		Permissions: rbac.NewPermissionsHandler(p.RBAC, mw),
	}
	if inspector != nil {
		h.Jobs = jobs.NewHandler(inspector, logger)
	}
	return h
}

// RBACMiddleware returns the permission guard shared by every page.
func (p *Pages) RBACMiddleware(logger *slog.Logger) rbac.Middleware {
	return rbac.Middleware{Service: p.RBAC, Logger: logger}
}
