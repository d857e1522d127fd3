package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/casetrail/casetrail/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNotifyTransfer announces a custody transfer to the receiving department.
	TaskNotifyTransfer = "notify:transfer"
	// TaskNotifyReport announces a finished lab report to the case officer.
	TaskNotifyReport = "notify:report"
)

// TransferNoticePayload describes a custody transfer notice.
type TransferNoticePayload struct {
	NoticeID       string `json:"notice_id,omitempty"`
	TransferID     string `json:"transfer_id"`
	CaseID         string `json:"case_id"`
	FromDepartment string `json:"from_department"`
	ToDepartment   string `json:"to_department"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	Actor          string `json:"actor"`
}

// ReportNoticePayload describes a lab report notice.
type ReportNoticePayload struct {
	NoticeID string `json:"notice_id,omitempty"`
	ReportID string `json:"report_id"`
	CaseID   string `json:"case_id"`
	Status   string `json:"status"`
	Analyst  string `json:"analyst"`
	Actor    string `json:"actor"`
}

// NewTransferNoticeTask builds a notify:transfer task. The notice id doubles
// as the asynq task id so a notice is queued at most once.
func NewTransferNoticeTask(payload TransferNoticePayload) (*asynq.Task, error) {
	if payload.TransferID == "" {
		return nil, fmt.Errorf("jobs: transfer notice requires transfer_id")
	}
	if payload.NoticeID == "" {
		payload.NoticeID = uuid.NewString()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyTransfer, body, asynq.Queue(QueueDefault), asynq.TaskID(payload.NoticeID), asynq.MaxRetry(3)), nil
}

// NewReportNoticeTask builds a notify:report task.
func NewReportNoticeTask(payload ReportNoticePayload) (*asynq.Task, error) {
	if payload.ReportID == "" {
		return nil, fmt.Errorf("jobs: report notice requires report_id")
	}
	if payload.NoticeID == "" {
		payload.NoticeID = uuid.NewString()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyReport, body, asynq.Queue(QueueDefault), asynq.TaskID(payload.NoticeID), asynq.MaxRetry(3)), nil
}

// Notices delivers notification tasks. Delivery is a log line after Delay,
// which stands in for the latency of a real messaging channel.
type Notices struct {
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Delay   time.Duration
}

// HandleTransfer processes TaskNotifyTransfer tasks.
func (n *Notices) HandleTransfer(ctx context.Context, t *asynq.Task) error {
	var payload TransferNoticePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	run := n.Metrics.Start(TaskNotifyTransfer)
	if err := n.wait(ctx); err != nil {
		return run.Finish(err)
	}
	n.logger().Info("transfer notice delivered",
		slog.String("notice_id", payload.NoticeID),
		slog.String("transfer_id", payload.TransferID),
		slog.String("case_id", payload.CaseID),
		slog.String("to", payload.ToDepartment),
		slog.String("status", payload.Status),
	)
	n.Metrics.Delivered(TaskNotifyTransfer, payload.ToDepartment)
	return run.Finish(nil)
}

// HandleReport processes TaskNotifyReport tasks.
func (n *Notices) HandleReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportNoticePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	run := n.Metrics.Start(TaskNotifyReport)
	if err := n.wait(ctx); err != nil {
		return run.Finish(err)
	}
	n.logger().Info("report notice delivered",
		slog.String("notice_id", payload.NoticeID),
		slog.String("report_id", payload.ReportID),
		slog.String("case_id", payload.CaseID),
		slog.String("status", payload.Status),
	)
	n.Metrics.Delivered(TaskNotifyReport, "Police")
	return run.Finish(nil)
}

func (n *Notices) wait(ctx context.Context) error {
	if n.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(n.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (n *Notices) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}
