package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway (client side) metrics
	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_client_request_duration_seconds",
			Help:    "Latency of calls made to the marketplace API",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// outcome is one of ok, api_error, session_expired, transport_error, decode_error
	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_client_requests_total",
			Help: "Total number of calls made to the marketplace API",
		},
		[]string{"method", "endpoint", "outcome"},
	)

	SessionExpirations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_client_session_expirations_total",
			Help: "Number of 401 responses that tore down the local session",
		},
	)

	// result is one of hit, miss, expired, corrupt
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_client_cache_lookups_total",
			Help: "Expiring cache lookups by result",
		},
		[]string{"result"},
	)

	// Sandbox HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	SandboxTradesOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sandbox_trades_open",
			Help: "Number of trade proposals currently stored by the sandbox",
		},
	)
)
