// Package metrics defines the Prometheus instruments for the service.
// Everything registers on the default registry; the /metrics endpoint
// exposes it through promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tib",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "handler", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tib",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~32s
		},
		[]string{"method", "handler"},
	)

	// Pipeline metrics
	BatchesPreprocessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tib",
			Subsystem: "pipeline",
			Name:      "batches_preprocessed_total",
			Help:      "Total number of transaction batches preprocessed",
		},
	)

	RecordsPreprocessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tib",
			Subsystem: "pipeline",
			Name:      "records_preprocessed_total",
			Help:      "Total number of transaction records preprocessed",
		},
	)

	PreprocessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tib",
			Subsystem: "pipeline",
			Name:      "preprocess_duration_seconds",
			Help:      "Wall time spent preprocessing one batch",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		},
	)

	// Scoring metrics
	RecordsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tib",
			Subsystem: "scoring",
			Name:      "records_scored_total",
			Help:      "Total number of records scored, by source",
		},
		[]string{"source"},
	)

	ModelFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tib",
			Subsystem: "scoring",
			Name:      "model_fallbacks_total",
			Help:      "Batches scored heuristically because the model was unavailable",
		},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tib",
			Subsystem: "scoring",
			Name:      "duration_seconds",
			Help:      "Wall time spent scoring one batch, by source",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"source"},
	)

	// Log analysis metrics
	LogLinesParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tib",
			Subsystem: "logs",
			Name:      "lines_parsed_total",
			Help:      "Total number of log lines parsed",
		},
	)

	LogLinesUnmatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tib",
			Subsystem: "logs",
			Name:      "lines_unmatched_total",
			Help:      "Log lines that did not match the expected format",
		},
	)
)

// RecordHTTPRequest tracks one finished HTTP request.
func RecordHTTPRequest(method, handler, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, handler, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, handler).Observe(duration.Seconds())
}
