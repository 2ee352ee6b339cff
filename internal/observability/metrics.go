// Package observability provides metrics and tracing for the ledger service.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardswap_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database statement latency by statement
	// kind. Fed by the GORM logger's Trace hook.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "boardswap_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// StarToggles counts star membership mutations by action and outcome.
	// Outcome "applied" means the membership set changed, "noop" means the
	// call was an idempotent repeat.
	StarToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardswap_star_toggles_total",
		Help: "Total star/unstar operations by action and outcome",
	}, []string{"action", "outcome"})

	// TxConflictRetries counts transactions retried after a store conflict.
	TxConflictRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardswap_tx_conflict_retries_total",
		Help: "Total transaction retries caused by store write conflicts",
	}, []string{"operation"})

	// VPAwards counts milestone awards by outcome ("awarded" or "deduped").
	VPAwards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardswap_vp_awards_total",
		Help: "Total milestone award attempts by outcome",
	}, []string{"outcome"})

	// VPReconciliations counts from-scratch reputation recomputations.
	VPReconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boardswap_vp_reconciliations_total",
		Help: "Total from-scratch VP recomputations",
	})
)

// InitMetrics creates the Fiber Prometheus middleware for HTTP-level metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// ObserveQuery records the latency of one database statement.
func ObserveQuery(operation string, elapsed time.Duration) {
	DatabaseQueryLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}
