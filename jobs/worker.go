package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
)

const defaultConcurrency = 5

// WorkerConfig collects what the notification worker needs.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Logger      *slog.Logger
	Concurrency int
	Notices     *Notices
}

// Worker processes notification tasks from QueueDefault.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker builds the asynq server and routes both notice types to cfg.Notices.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.RedisOpts.Addr == "" {
		return nil, errors.New("jobs: worker requires a redis address")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
		Logger:      newAsynqLogger(logger),
		LogLevel:    asynq.WarnLevel,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			logger.Warn("notice failed",
				slog.String("task", task.Type()),
				slog.Int("retried", retried),
				slog.Any("error", err),
			)
		}),
	})
	return &Worker{server: srv, mux: NewServeMux(cfg.Notices)}, nil
}

// NewServeMux routes notify:transfer and notify:report. Other task types
// fail with asynq's not-found error.
func NewServeMux(notices *Notices) *asynq.ServeMux {
	if notices == nil {
		notices = &Notices{}
	}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskNotifyTransfer, notices.HandleTransfer)
	mux.HandleFunc(TaskNotifyReport, notices.HandleReport)
	return mux
}

// Run processes tasks until ctx ends or the server stops on its own.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return errors.New("jobs: worker not configured")
	}
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	<-ctx.Done()
	w.server.Shutdown()
	return ctx.Err()
}
