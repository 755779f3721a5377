package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts service operations by outcome.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modgraph_operations_total",
			Help: "Total number of graph operations processed",
		},
		[]string{"operation", "status"},
	)

	// OperationDuration measures how long each operation takes, including
	// snapshot loads from disk.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modgraph_operation_duration_seconds",
			Help:    "Duration of graph operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	// ViewCacheLookups counts view cache hits and misses.
	ViewCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modgraph_view_cache_lookups_total",
			Help: "Total number of view cache lookups",
		},
		[]string{"result"},
	)

	// ViewSize tracks the node and edge counts of the last view served per preset.
	ViewSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "modgraph_view_size",
			Help: "Node and edge count of the most recent view per preset",
		},
		[]string{"preset", "kind"},
	)
)

// Observe records the outcome and duration of an operation started at start.
func Observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
