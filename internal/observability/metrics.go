// Package observability holds Prometheus collectors and OpenTelemetry setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketplace_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CheckoutsTotal counts checkout attempts by outcome.
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_checkouts_total",
		Help: "Total number of checkout attempts by outcome",
	}, []string{"outcome"})

	// CheckoutAmount observes the total amount of successful checkouts.
	CheckoutAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketplace_checkout_amount",
		Help:    "Total amount charged per successful checkout",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// CartOperationsTotal counts cart mutations by operation.
	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_cart_operations_total",
		Help: "Total number of cart operations",
	}, []string{"operation"})

	// CacheLookupsTotal counts cache-aside lookups by key family and result.
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"family", "result"})
)

// Checkout outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeEmptyCart   = "empty_cart"
	OutcomeUnavailable = "unavailable"
	OutcomeConflict    = "conflict"
	OutcomeError       = "error"
)

// RecordCheckout increments the checkout counter and observes the amount on success.
func RecordCheckout(outcome string, amount float64) {
	CheckoutsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		CheckoutAmount.Observe(amount)
	}
}

// DatabaseMetrics records query latency for a repository.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (*DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
