// Package metrics exposes Prometheus collectors for fetch outcomes and the
// web surface. Collectors register on the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harmony_fetch_total",
			Help: "Recommendation fetches by provider and outcome (success or error kind)",
		},
		[]string{"provider", "outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harmony_fetch_duration_seconds",
			Help:    "Wall time of a single provider call",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider"},
	)

	StaleResolutions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "harmony_stale_resolutions_total",
			Help: "Fetch resolutions discarded because a newer fetch was issued",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harmony_http_requests_total",
			Help: "HTTP requests served by route pattern and status code",
		},
		[]string{"route", "code"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "harmony_web_sessions",
			Help: "Browser sessions currently held in memory",
		},
	)
)
