package payment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Provider notifications by trade status and processing result",
		},
		[]string{"trade_status", "result"},
	)

	PaymentReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_reconciliations_total",
			Help: "Order reconciliations against the provider by resulting order status",
		},
		[]string{"status"},
	)

	RefundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_refunds_total",
			Help: "Refund attempts by result",
		},
		[]string{"result"},
	)
)
