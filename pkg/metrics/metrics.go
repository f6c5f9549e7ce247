package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	AuthFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failure_count",
			Help: "Total number of rejected authentications",
		},
		[]string{"reason"}, // reason: missing_token, invalid_token, bad_credentials
	)

	TaskStatusChangeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_status_change_count",
			Help: "Total number of task status changes",
		},
		[]string{"status"},
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementAuthFailure counts a rejected authentication.
func IncrementAuthFailure(reason string) {
	AuthFailureCount.WithLabelValues(reason).Inc()
}

// IncrementTaskStatusChange counts a task entering the given status.
func IncrementTaskStatusChange(status string) {
	TaskStatusChangeCount.WithLabelValues(status).Inc()
}
