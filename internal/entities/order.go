package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         int64
	UserID     int64
	ProductID  int64
	Quantity   int64
	TotalPrice decimal.Decimal
	Status     OrderStatusType
	Address    *ShippingAddress
	ExpiresAt  time.Time
	TradeNo    *string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (o *Order) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

func (o *Order) IsOwnedBy(userID int64) bool {
	return o.UserID == userID
}

// ShippingAddress снимок адреса на момент оформления, дальнейшие правки адресной книги его не меняют.
type ShippingAddress struct {
	ReceiverName  string `validate:"required,max=64"`
	ReceiverPhone string `validate:"required,max=32"`
	FullAddress   string `validate:"required,max=512"`
}

type OrderStatusType string

const (
	OrderPending   OrderStatusType = "pending"
	OrderPaying    OrderStatusType = "paying"
	OrderPaid      OrderStatusType = "paid"
	OrderCancelled OrderStatusType = "cancelled"
	OrderRefunded  OrderStatusType = "refunded"
)

var orderTransitions = map[OrderStatusType][]OrderStatusType{
	OrderPending: {OrderPaying, OrderCancelled},
	OrderPaying:  {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderRefunded},
}

func ParseOrderStatus(s string) (OrderStatusType, error) {
	switch status := OrderStatusType(s); status {
	case OrderPending, OrderPaying, OrderPaid, OrderCancelled, OrderRefunded:
		return status, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

func (s OrderStatusType) String() string {
	return string(s)
}

func (s OrderStatusType) CanTransitionTo(next OrderStatusType) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatusType) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Restocks сообщает, что переход в этот статус возвращает товар на склад.
func (s OrderStatusType) Restocks() bool {
	return s == OrderCancelled || s == OrderRefunded
}

type OrderModify struct {
	ID         *int64
	UserID     *int64
	ProductID  *int64
	Quantity   *int64
	TotalPrice *decimal.Decimal
	Status     *OrderStatusType
	Address    *ShippingAddress
	ExpiresAt  *time.Time
}

// StatusChange дополнительные поля, которые пишутся вместе со сменой статуса.
type StatusChange struct {
	TradeNo *string
	PaidAt  *time.Time
}

type OrderFilter struct {
	Status *OrderStatusType
	UserID *int64
	Limit  uint64
	Offset uint64
}

type CreateOrderRequest struct {
	ProductID int64            `validate:"required,gt=0"`
	Quantity  int64            `validate:"required,gt=0,lte=1000"`
	Address   *ShippingAddress `validate:"omitempty"`
}
