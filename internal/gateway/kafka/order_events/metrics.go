package order_events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_events_published_total",
		Help: "Order events sent to Kafka by type and result",
	},
	[]string{"event_type", "result"},
)
