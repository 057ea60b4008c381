package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analytics store metrics, labelled by event kind ("visit", "contact").
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_ingested_total",
			Help: "Total number of analytics events appended to a store",
		},
		[]string{"kind"},
	)

	EventsEvicted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_evicted_total",
			Help: "Total number of analytics events dropped by capacity eviction",
		},
		[]string{"kind"},
	)

	EventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_rejected_total",
			Help: "Total number of ingestion payloads rejected as malformed",
		},
		[]string{"kind"},
	)

	StoreSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "analytics_store_size",
			Help: "Current number of events held in a store",
		},
		[]string{"kind"},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_report_duration_seconds",
			Help:    "Time spent computing a rollup report",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"report"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Email relay
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_relay_requests_total",
			Help: "Email relay attempts by outcome",
		},
		[]string{"outcome"}, // "sent", "failed", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAppend records one store append and how many events it evicted.
func RecordAppend(kind string, evicted, size int) {
	EventsIngested.WithLabelValues(kind).Inc()
	if evicted > 0 {
		EventsEvicted.WithLabelValues(kind).Add(float64(evicted))
	}
	StoreSize.WithLabelValues(kind).Set(float64(size))
}

// ObserveReport times a report computation; use as defer ObserveReport("visit")().
func ObserveReport(report string) func() {
	start := time.Now()
	return func() {
		ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	}
}
