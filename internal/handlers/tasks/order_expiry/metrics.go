package order_expiry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_expiry_sweeps_total",
			Help: "Order expiry sweeper runs by result",
		},
		[]string{"result"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_expiry_sweep_duration_seconds",
			Help:    "Duration of a single order expiry sweep",
			Buckets: prometheus.DefBuckets,
		},
	)
)
