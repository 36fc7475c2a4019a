package order

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of created orders",
		},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Total number of committed order status transitions",
		},
		[]string{"from", "to"},
	)

	ExpiredOrdersCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_orders_cancelled_total",
			Help: "Total number of pending orders cancelled by the expiry sweeper",
		},
	)

	ExpiredOrdersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_orders_failed_total",
			Help: "Total number of expired orders the sweeper failed to cancel",
		},
	)
)
