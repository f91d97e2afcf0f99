package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperations counts store operations by name and outcome (ok or an error code).
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftlist_store_operations_total",
		Help: "Total number of store operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// StoreOperationLatency records how long each store operation took, lock wait included.
	StoreOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giftlist_store_operation_latency_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// StoreLockWait records time spent waiting on the store gate.
	StoreLockWait = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giftlist_store_lock_wait_seconds",
		Help:    "Time spent waiting for the store gate in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"mode"})

	// ActionLedgerWrites counts action ledger writes by the effect of the collapse rule.
	ActionLedgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftlist_action_ledger_writes_total",
		Help: "Action ledger writes by effect (insert, update, delete, noop)",
	}, []string{"effect"})

	// TombstonesWritten counts tombstones written when gifts with open actions are deleted.
	TombstonesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftlist_tombstones_written_total",
		Help: "Total number of deleted-gift tombstones written",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftlist_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// ObserveOperation records the outcome and latency of a store operation.
func ObserveOperation(operation, outcome string, start time.Time) {
	StoreOperations.WithLabelValues(operation, outcome).Inc()
	StoreOperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
