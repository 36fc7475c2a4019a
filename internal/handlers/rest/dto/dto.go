package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message *string `json:"message,omitempty"`
}

type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

type ShippingAddress struct {
	ReceiverName  string `json:"receiver_name"`
	ReceiverPhone string `json:"receiver_phone"`
	FullAddress   string `json:"full_address"`
}

type Order struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	ProductID  int64            `json:"product_id"`
	Quantity   int64            `json:"quantity"`
	TotalPrice string           `json:"total_price"`
	Status     string           `json:"status"`
	Address    *ShippingAddress `json:"address,omitempty"`
	ExpiresAt  time.Time        `json:"expires_at"`
	TradeNo    *string          `json:"trade_no,omitempty"`
	PaidAt     *time.Time       `json:"paid_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type OrderList struct {
	Orders []Order `json:"orders"`
	Limit  uint64  `json:"limit"`
	Offset uint64  `json:"offset"`
}

type OrderCreate struct {
	ProductID int64            `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	Address   *ShippingAddress `json:"address,omitempty"`
}

type OrderStatusUpdate struct {
	Status string `json:"status"`
}

type PaymentRequest struct {
	OrderID int64 `json:"order_id"`
}

type PaymentCreateResponse struct {
	OrderID int64  `json:"order_id"`
	PayURL  string `json:"pay_url"`
}

type PaymentQueryResponse struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
	TradeNo string `json:"trade_no,omitempty"`
}
