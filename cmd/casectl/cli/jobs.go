package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/casetrail/casetrail/internal/app"
	"github.com/casetrail/casetrail/jobs"
)

// Enqueuer submits notification tasks.
type Enqueuer interface {
	EnqueueTransferNotice(ctx context.Context, payload jobs.TransferNoticePayload) (*asynq.TaskInfo, error)
	EnqueueReportNotice(ctx context.Context, payload jobs.ReportNoticePayload) (*asynq.TaskInfo, error)
}

// JobsCLI wraps manual management helpers for the notification queue.
type JobsCLI struct {
	pages     *app.Pages
	client    Enqueuer
	inspector jobs.QueueInspector
}

// NewJobsCLI builds the helpers. Payloads are filled from the seeded pages.
func NewJobsCLI(pages *app.Pages, client Enqueuer, inspector jobs.QueueInspector) *JobsCLI {
	return &JobsCLI{pages: pages, client: client, inspector: inspector}
}

// Trigger enqueues a notice for the record id by task name.
func (c *JobsCLI) Trigger(ctx context.Context, name, recordID string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	switch name {
	case jobs.TaskNotifyTransfer:
		t, err := c.pages.Transfers.Get(ctx, recordID)
		if err != nil {
			return nil, err
		}
		return c.client.EnqueueTransferNotice(ctx, jobs.TransferNoticePayload{
			TransferID:     t.ID,
			CaseID:         t.CaseID,
			FromDepartment: t.FromDepartment,
			ToDepartment:   t.ToDepartment,
			Status:         t.Status,
			Priority:       t.Priority,
			Actor:          "casectl",
		})
	case jobs.TaskNotifyReport:
		r, err := c.pages.Reports.Get(ctx, recordID)
		if err != nil {
			return nil, err
		}
		return c.client.EnqueueReportNotice(ctx, jobs.ReportNoticePayload{
			ReportID: r.ID,
			CaseID:   r.CaseID,
			Status:   r.Status,
			Analyst:  r.Analyst,
			Actor:    "casectl",
		})
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
}

// InspectQueue reports the metrics of the default queue.
func (c *JobsCLI) InspectQueue() (jobs.QueueStats, error) {
	if c == nil || c.inspector == nil {
		return jobs.QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	return jobs.Inspect(c.inspector)
}
