// Package metrics exposes Prometheus collectors for the alignment service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pairwise_align",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pairwise_align",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pairwise_align",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	alignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pairwise_align",
			Subsystem: "aligner",
			Name:      "alignments_total",
			Help:      "Total number of alignment computations.",
		},
		[]string{"mode", "status"},
	)

	alignmentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pairwise_align",
			Subsystem: "aligner",
			Name:      "alignment_duration_seconds",
			Help:      "Duration of alignment computations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"mode"},
	)

	sequenceLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pairwise_align",
			Subsystem: "aligner",
			Name:      "sequence_length",
			Help:      "Length of submitted sequences (target and query).",
			Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		alignments,
		alignmentDuration,
		sequenceLength,
	)
}

// IncrementInFlight marks one more HTTP request in progress.
func IncrementInFlight() { httpInFlight.Inc() }

// DecrementInFlight marks one HTTP request finished.
func DecrementInFlight() { httpInFlight.Dec() }

// RecordHTTPRequest records one handled HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAlignment records one alignment computation.
func RecordAlignment(mode, status string, duration time.Duration, targetLen, queryLen int) {
	alignments.WithLabelValues(mode, status).Inc()
	alignmentDuration.WithLabelValues(mode).Observe(duration.Seconds())
	sequenceLength.Observe(float64(targetLen))
	sequenceLength.Observe(float64(queryLen))
}

// Handler serves the registry in Prometheus text exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
