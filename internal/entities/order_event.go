package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderEventCreated       = "order.created"
	OrderEventStatusChanged = "order.status.changed"
)

type OrderEvent struct {
	OrderID    int64
	UserID     int64
	ProductID  int64
	Quantity   int64
	TotalPrice decimal.Decimal
	From       OrderStatusType // пустой для только что созданного заказа
	To         OrderStatusType
	OccurredAt time.Time
}

func NewOrderEvent(from OrderStatusType, order *Order, occurredAt time.Time) OrderEvent {
	return OrderEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		From:       from,
		To:         order.Status,
		OccurredAt: occurredAt,
	}
}

func (e OrderEvent) Type() string {
	if e.From == "" {
		return OrderEventCreated
	}
	return OrderEventStatusChanged
}
