package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StopRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "partybus", Name: "stop_requests_total", Help: "Total stop requests created"})
	StopDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "partybus", Name: "stop_decisions_total", Help: "Stop request decisions by outcome"},
		[]string{"outcome"},
	)
	RoutingFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "partybus", Name: "routing_fallbacks_total", Help: "Detour lookups that fell back to the default estimate"})
	BookingsCreatedTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "partybus", Name: "bookings_created_total", Help: "Total bookings created"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "partybus", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "partybus",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Outcome labels for StopDecisionsTotal.
const (
	OutcomeApproved   = "approved"
	OutcomeDenied     = "denied"
	OutcomeAutoDenied = "auto_denied"
)
