// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests.
	// Labels:
	//   - route: gin route template, e.g. "/api/links/:id"
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// Redirects counts redirect resolutions by outcome: "ok", "not_found",
	// "expired", "password_required", "error".
	Redirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of short link resolutions",
		},
		[]string{"outcome"},
	)

	ClicksRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clicks_recorded_total",
			Help: "Total number of click tracking attempts",
		},
		[]string{"outcome"},
	)

	// GeoLookups counts country lookups: "ok", "error", "breaker_open", "skipped".
	GeoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_lookups_total",
			Help: "Total number of geo-IP lookups",
		},
		[]string{"outcome"},
	)
)

// ObserveBreaker exports a gauge that reads 1 while the named circuit breaker
// is open.
func ObserveBreaker(name string, state func() string) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "circuit_breaker_open",
			Help:        "Whether a circuit breaker is currently open",
			ConstLabels: prometheus.Labels{"breaker": name},
		},
		func() float64 {
			if state() == "open" {
				return 1
			}
			return 0
		},
	)
}
