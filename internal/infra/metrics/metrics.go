// Package metrics exposes the Prometheus instruments used across the
// backend and the edge proxy.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Login attempts by outcome (success, failure, locked, rate_limited).",
		},
		[]string{"outcome"},
	)
	RefreshRotations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_rotations_total",
			Help: "Refresh token rotations by outcome (success, invalid, replayed).",
		},
		[]string{"outcome"},
	)
	EdgeRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_silent_refreshes_total",
			Help: "Silent refreshes attempted by the edge proxy, by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register installs every instrument on the given registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		RequestCount,
		RequestDuration,
		LoginAttempts,
		RefreshRotations,
		EdgeRefreshes,
	)
}

// Handler returns the scrape endpoint for the registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
