package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Accrual job metrics
	AccrualRuns        *prometheus.CounterVec
	AccrualRunDuration *prometheus.HistogramVec
	AccrualItems       *prometheus.CounterVec
	InterestAccrued    *prometheus.CounterVec

	// Pool metrics
	PoolUtilization *prometheus.GaugeVec
	PoolResyncs     *prometheus.CounterVec

	// Quote metrics
	QuotesServed *prometheus.CounterVec

	// Deposit volume metrics
	DepositsRecorded *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		AccrualRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateengine_accrual_runs_total",
				Help: "Total number of accrual runs by job and outcome",
			},
			[]string{"job", "outcome"},
		),
		AccrualRunDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rateengine_accrual_run_duration_seconds",
				Help:    "Duration of accrual runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job"},
		),
		AccrualItems: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateengine_accrual_items_total",
				Help: "Per-item accrual outcomes by job and status",
			},
			[]string{"job", "status"},
		),
		InterestAccrued: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateengine_interest_accrued_total",
				Help: "Total interest accrued by asset",
			},
			[]string{"asset", "chain"},
		),

		PoolUtilization: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rateengine_pool_utilization",
				Help: "Current pool utilization ratio",
			},
			[]string{"asset", "chain"},
		),
		PoolResyncs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateengine_pool_resyncs_total",
				Help: "Total number of pool aggregate recomputations",
			},
			[]string{"asset", "chain"},
		),

		QuotesServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateengine_quotes_served_total",
				Help: "Total number of rate quotes served by asset and source",
			},
			[]string{"asset", "source"},
		),

		DepositsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateengine_deposits_recorded_total",
				Help: "Total number of deposit volume events recorded",
			},
			[]string{"asset", "chain"},
		),
	}
}
