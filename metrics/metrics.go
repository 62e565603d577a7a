package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Latency of calls to Google Calendar, Gemini and notification channels.
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_external_call_duration_seconds",
			Help:    "Duration of outbound calls to third-party providers",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"provider", "operation", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"method", "path", "status"},
	)

	TasksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_tasks_created_total",
			Help: "Total number of persisted tasks",
		},
	)

	// status: ok, failed, skipped
	SideEffects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_side_effects_total",
			Help: "Outcomes of best-effort side effects (plan, calendar sync, notifications)",
		},
		[]string{"name", "status"},
	)
)

// ObserveExternalCall records the latency of one provider call.
func ObserveExternalCall(provider, operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ExternalCallDuration.WithLabelValues(provider, operation, status).Observe(time.Since(start).Seconds())
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementTasksCreated() {
	TasksCreated.Inc()
}

func RecordSideEffect(name, status string) {
	SideEffects.WithLabelValues(name, status).Inc()
}
