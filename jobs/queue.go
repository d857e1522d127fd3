package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/casetrail/casetrail/internal/platform/httpx"
)

// QueueInspector is the part of *asynq.Inspector the health check reads.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// QueueStats summarises the notice queue.
type QueueStats struct {
	Queue     string `json:"queue"`
	Size      int    `json:"size"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Paused    bool   `json:"paused"`
}

func statsFrom(info *asynq.QueueInfo) QueueStats {
	if info == nil {
		return QueueStats{Queue: QueueDefault}
	}
	return QueueStats{
		Queue:     info.Queue,
		Size:      info.Size,
		Pending:   info.Pending,
		Active:    info.Active,
		Scheduled: info.Scheduled,
		Retry:     info.Retry,
		Archived:  info.Archived,
		Paused:    info.Paused,
	}
}

// Inspect reads QueueDefault. Without an inspector it reports an empty queue.
func Inspect(inspector QueueInspector) (QueueStats, error) {
	if inspector == nil {
		return statsFrom(nil), nil
	}
	info, err := inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		return statsFrom(nil), err
	}
	return statsFrom(info), nil
}

// Handler serves GET /jobs/health.
type Handler struct {
	inspector QueueInspector
	logger    *slog.Logger
}

// NewHandler builds the queue health handler.
func NewHandler(inspector QueueInspector, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{inspector: inspector, logger: logger}
}

// MountRoutes registers /health under the jobs root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		stats, err := Inspect(h.inspector)
		if err != nil {
			h.logger.Warn("inspect notice queue", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Queue unavailable", "")
			return
		}
		httpx.JSON(w, http.StatusOK, stats)
	})
}
