// Package metrics holds the Prometheus collectors exported on /metrics
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"method", "endpoint"},
	)

	// SectionSubmissions counts section submissions by identity kind (user, guest) and outcome
	SectionSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playground_section_submissions_total",
			Help: "Total number of playground section submissions",
		},
		[]string{"identity", "outcome"},
	)

	// PanicsRecovered counts handler panics turned into 500 responses, by route
	PanicsRecovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_panics_recovered_total",
			Help: "Total number of recovered handler panics",
		},
		[]string{"route"},
	)

	// RenderDuration observes how long rendering a lesson output took
	RenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playground_output_render_duration_seconds",
			Help:    "Duration of lesson output rendering, text generation included",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"outcome"},
	)
)

var once sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(SectionSubmissions)
		prometheus.MustRegister(RenderDuration)
		prometheus.MustRegister(PanicsRecovered)
	})
}

// IdentityLabel returns the identity label value for a user or guest
func IdentityLabel(authenticated bool) string {
	if authenticated {
		return "user"
	}
	return "guest"
}
