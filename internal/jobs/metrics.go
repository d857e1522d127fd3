package jobmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels recorded on casetrail_jobs_total.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Metrics holds the notification worker collectors.
type Metrics struct {
	runs     *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
	latency  *prometheus.HistogramVec
	notices  *prometheus.CounterVec
}

// NewMetrics registers the worker collectors on reg. A nil reg leaves them
// unregistered, which suits tests that only read counters back.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casetrail",
			Name:      "jobs_total",
			Help:      "Notification task runs by task type and outcome.",
		}, []string{"task", "outcome"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "casetrail",
			Name:      "jobs_in_flight",
			Help:      "Notification tasks currently being handled.",
		}, []string{"task"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "casetrail",
			Name:      "job_duration_seconds",
			Help:      "Time spent handling a notification task.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"task"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casetrail",
			Name:      "notices_delivered_total",
			Help:      "Notices delivered by task type and receiving department.",
		}, []string{"task", "department"}),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.inFlight, m.latency, m.notices)
	}
	return m
}

// Run instruments one task execution. The zero Run is a no-op.
type Run struct {
	m       *Metrics
	task    string
	started time.Time
}

// Start marks task as in flight.
func (m *Metrics) Start(task string) Run {
	if m == nil {
		return Run{}
	}
	m.inFlight.WithLabelValues(task).Inc()
	return Run{m: m, task: task, started: time.Now()}
}

// Finish records the outcome of the run and hands err back to the caller.
func (r Run) Finish(err error) error {
	if r.m == nil {
		return err
	}
	r.m.inFlight.WithLabelValues(r.task).Dec()
	r.m.latency.WithLabelValues(r.task).Observe(time.Since(r.started).Seconds())
	outcome := OutcomeDelivered
	if err != nil {
		outcome = OutcomeFailed
	}
	r.m.runs.WithLabelValues(r.task, outcome).Inc()
	return err
}

// Delivered counts a notice sent to department.
func (m *Metrics) Delivered(task, department string) {
	if m == nil {
		return
	}
	if department == "" {
		department = "unknown"
	}
	m.notices.WithLabelValues(task, department).Inc()
}
