package order

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type OrderDB struct {
	ID            int64
	UserID        int64
	ProductID     int64
	Quantity      int64
	TotalPrice    pgtype.Numeric
	Status        string
	ReceiverName  *string
	ReceiverPhone *string
	FullAddress   *string
	ExpiresAt     time.Time
	TradeNo       *string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderModifyDB struct {
	UserID        *int64
	ProductID     *int64
	Quantity      *int64
	TotalPrice    *string
	Status        *string
	ReceiverName  *string
	ReceiverPhone *string
	FullAddress   *string
	ExpiresAt     *time.Time
}
