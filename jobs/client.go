package jobs

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
)

var errClientClosed = errors.New("jobs: client not configured")

// Client enqueues notices. Reports and transfers hold it behind their
// notifier interfaces.
type Client struct {
	client *asynq.Client
}

// NewClient opens an asynq client on opts.
func NewClient(opts asynq.RedisClientOpt) (*Client, error) {
	if opts.Addr == "" {
		return nil, errors.New("jobs: client requires a redis address")
	}
	return &Client{client: asynq.NewClient(opts)}, nil
}

// EnqueueTransferNotice queues a notify:transfer task for payload.
func (c *Client) EnqueueTransferNotice(ctx context.Context, payload TransferNoticePayload) (*asynq.TaskInfo, error) {
	task, err := NewTransferNoticeTask(payload)
	if err != nil {
		return nil, err
	}
	return c.Enqueue(ctx, task)
}

// EnqueueReportNotice queues a notify:report task for payload.
func (c *Client) EnqueueReportNotice(ctx context.Context, payload ReportNoticePayload) (*asynq.TaskInfo, error) {
	task, err := NewReportNoticeTask(payload)
	if err != nil {
		return nil, err
	}
	return c.Enqueue(ctx, task)
}

// Enqueue submits task. A notice id that is already queued reports
// asynq.ErrTaskIDConflict.
func (c *Client) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errClientClosed
	}
	return c.client.EnqueueContext(ctx, task, opts...)
}

// Close releases the redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
