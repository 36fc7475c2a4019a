package order_events

import (
	"github.com/google/uuid"
	"shop/internal/entities"
)

func toEnvelope(event entities.OrderEvent) envelope {
	return envelope{
		EventID:    uuid.NewString(),
		EventType:  event.Type(),
		OccurredAt: event.OccurredAt.UTC(),
		Producer:   producerName,
		Payload: orderPayload{
			OrderID:    event.OrderID,
			UserID:     event.UserID,
			ProductID:  event.ProductID,
			Quantity:   event.Quantity,
			TotalPrice: event.TotalPrice.StringFixed(2),
			From:       event.From.String(),
			Status:     event.To.String(),
		},
	}
}
