package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InteractionToggles counts toggle transitions by interaction kind and outcome.
	InteractionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "even_interaction_toggles_total",
		Help: "Total number of interaction toggles by kind and outcome",
	}, []string{"kind", "outcome"})

	// PostViews counts view-tracking requests by whether they were counted.
	PostViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "even_post_views_total",
		Help: "Total number of post view requests by result",
	}, []string{"result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "even_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// RecordToggle increments the toggle counter.
func RecordToggle(kind, outcome string) {
	InteractionToggles.WithLabelValues(kind, outcome).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordView counts a view-tracking request.
func RecordView(counted bool) {
	result := "skipped"
	if counted {
		result = "counted"
	}
	PostViews.WithLabelValues(result).Inc()
}
