package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/casetrail/casetrail/internal/app"
	"github.com/casetrail/casetrail/internal/observability"
	"github.com/casetrail/casetrail/jobs"
)

func main() {
	if app.SkipStartup("worker") {
		return
	}
	if err := run(); err != nil {
		slog.Default().Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

// run serves notification tasks and the worker's /metrics until SIGINT or
// SIGTERM, or until either of them fails.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg).With(slog.String("component", "worker"))
	metrics := observability.NewMetrics()

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Notices:   &jobs.Notices{Logger: logger, Metrics: metrics.Jobs(), Delay: cfg.NotifyDelay},
	})
	if err != nil {
		return err
	}

	metricsServer := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("worker metrics listening", slog.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("worker started", slog.Duration("notify_delay", cfg.NotifyDelay))
		if err := worker.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
