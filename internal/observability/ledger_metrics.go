package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bank_ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bank_ledger",
			Name:      "operation_duration_seconds",
			Help:      "Time spent inside a ledger unit of work, lock wait included",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"type"},
	)
)
