package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Fuentes externas (adapters)
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nightspark_source_requests_total",
			Help: "Adapter invocations by outcome (ok, error, panic, skipped)",
		},
		[]string{"source", "outcome"},
	)

	SourceEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nightspark_source_events_total",
			Help: "Normalized events returned per adapter",
		},
		[]string{"source"},
	)

	SourceDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nightspark_source_records_dropped_total",
			Help: "Raw records dropped during normalization",
		},
		[]string{"source", "reason"},
	)

	SourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nightspark_source_request_duration_seconds",
			Help:    "Adapter call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	DiscoveryTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nightspark_discovery_tier_total",
			Help: "Cascade tier that answered a discovery request",
		},
		[]string{"tier"},
	)

	// Circuit breaker por upstream (0 closed, 1 half-open, 2 open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nightspark_circuit_breaker_state",
			Help: "Circuit breaker state per upstream",
		},
		[]string{"name"},
	)

	// API
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nightspark_api_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nightspark_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	PlanSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nightspark_plan_subscribers",
			Help: "Open plan subscriptions",
		},
	)
)

// ObserveSource registra una invocación completa de un adapter.
func ObserveSource(source, outcome string, events int, d time.Duration) {
	SourceRequests.WithLabelValues(source, outcome).Inc()
	SourceDuration.WithLabelValues(source).Observe(d.Seconds())
	if events > 0 {
		SourceEvents.WithLabelValues(source).Add(float64(events))
	}
}

func RecordAPIRequest(method, route, status string, d time.Duration) {
	APIRequests.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
