package order_events

import "time"

const producerName = "shop"

type envelope struct {
	EventID    string       `json:"event_id"`
	EventType  string       `json:"event_type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Producer   string       `json:"producer"`
	Payload    orderPayload `json:"payload"`
}

type orderPayload struct {
	OrderID    int64  `json:"order_id"`
	UserID     int64  `json:"user_id"`
	ProductID  int64  `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	TotalPrice string `json:"total_price"`
	From       string `json:"from,omitempty"`
	Status     string `json:"status"`
}
