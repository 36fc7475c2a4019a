//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"
	"time"

	"shop/internal/entities"
	"shop/pkg/logger"
)

type Repository interface {
	Create(ctx context.Context, orderModify entities.OrderModify) (*entities.Order, error)
	GetByID(ctx context.Context, id int64) (*entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	ListExpiredPending(ctx context.Context, now time.Time, limit uint64) ([]entities.Order, error)

	UpdateStatus(ctx context.Context, id int64, from, to entities.OrderStatusType, change entities.StatusChange) (*entities.Order, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Product, error)
	ReserveStock(ctx context.Context, id, quantity int64) error
	RestockStock(ctx context.Context, id, quantity int64) error
}

type PaymentGateway interface {
	CloseTrade(ctx context.Context, orderID int64) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event entities.OrderEvent) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type serviceLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
