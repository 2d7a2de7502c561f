// Package metrics defines the Prometheus metrics exported by the service.
// Metrics are registered with the default registry on package init and
// served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "food_ordering"

// CartOperationsTotal counts cart core operations.
// Labels:
//   - operation: aggregate, add, remove, clear
//   - result: ok, error
var CartOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "operations_total",
		Help:      "Total number of cart operations by outcome.",
	},
	[]string{"operation", "result"},
)

// CartAggregateDuration measures end-to-end aggregation latency, retries included.
var CartAggregateDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "aggregate_duration_seconds",
		Help:      "Time spent building a cart view.",
		Buckets:   prometheus.DefBuckets,
	},
)

// CartUnresolvedLinesTotal counts cart rows whose product could not be found.
var CartUnresolvedLinesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "unresolved_lines_total",
		Help:      "Cart rows referencing a product that no longer exists.",
	},
)

// CartDuplicateRowsTotal counts duplicate (identity, product) rows seen during aggregation.
var CartDuplicateRowsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "duplicate_rows_total",
		Help:      "Cart rows sharing an identity and product with an earlier row.",
	},
)

// GatewayRetriesTotal counts retried gateway reads.
var GatewayRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "retries_total",
		Help:      "Gateway reads retried after a transient failure.",
	},
)

// OrdersPlacedTotal counts successfully placed orders.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Total number of orders placed.",
	},
)

// CatalogCacheTotal counts menu cache lookups.
// Label:
//   - result: hit, miss, error
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "cache_lookups_total",
		Help:      "Menu catalog cache lookups by result.",
	},
	[]string{"result"},
)

// HTTPRequestsTotal counts HTTP requests by route template, method and status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	},
	[]string{"route", "method", "status"},
)

// HTTPRequestDuration measures HTTP request latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// ObserveCartOperation records the outcome of a cart operation
func ObserveCartOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CartOperationsTotal.WithLabelValues(operation, result).Inc()
}
