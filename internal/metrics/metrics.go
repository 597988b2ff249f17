// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests, comments, likes and the database pool.
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "article_engagement"
)

// ResultSuccess is the outcome label of a successful operation; failed
// operations are labelled with their error kind
const ResultSuccess = "success"

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Comment metrics - outcome of each comment operation by error kind
	CommentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comments",
			Name:      "operations_total",
			Help:      "Comment operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Like metrics
	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "likes",
			Name:      "toggles_total",
			Help:      "Completed like toggles by resulting state",
		},
		[]string{"state"},
	)

	LikeConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "likes",
			Name:      "insert_conflicts_total",
			Help:      "Like inserts that hit the (article, user) unique constraint and were treated as already liked",
		},
	)

	// Store metrics - latency of repository calls made by services
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store call duration in seconds by operation",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

// RegisterDBStats exposes database/sql pool statistics on the default registry
func RegisterDBStats(db *sql.DB, dbName string) error {
	return prometheus.Register(collectors.NewDBStatsCollector(db, dbName))
}

// ObserveCommentOperation records the outcome of a comment operation
func ObserveCommentOperation(operation, outcome string) {
	CommentOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveLikeToggle records a completed toggle
func ObserveLikeToggle(liked bool) {
	state := "unliked"
	if liked {
		state = "liked"
	}
	LikeTogglesTotal.WithLabelValues(state).Inc()
}

// Timer is a helper for measuring operation duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer was created
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}

// ObserveStore records the duration of a store call started at timer
func (t *Timer) ObserveStore(operation string) {
	t.ObserveDuration(StoreOperationDuration.WithLabelValues(operation))
}
