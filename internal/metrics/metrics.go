// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitness_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	EnrollmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_enrollment_outcomes_total",
			Help: "Enroll and disenroll attempts by outcome",
		},
		[]string{"action", "outcome"},
	)

	EventCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_event_cache_lookups_total",
			Help: "Gym event list cache lookups by result",
		},
		[]string{"result"},
	)
)

// Enrollment action labels.
const (
	ActionEnroll    = "enroll"
	ActionDisenroll = "disenroll"
)

// RecordEnrollment counts one enrollment attempt.
func RecordEnrollment(action, outcome string) {
	EnrollmentOutcomes.WithLabelValues(action, outcome).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	EventCacheLookups.WithLabelValues(result).Inc()
}
