//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_test
package payment

import (
	"context"
	"net/url"

	"shop/internal/entities"
	"shop/pkg/logger"
)

type OrderService interface {
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	GetProduct(ctx context.Context, id int64) (*entities.Product, error)
	Transition(ctx context.Context, order *entities.Order, target entities.OrderStatusType, change entities.StatusChange) (*entities.Order, error)
	MarkPaid(ctx context.Context, order *entities.Order, change entities.StatusChange) (*entities.Order, error)
}

type Gateway interface {
	PagePayURL(ctx context.Context, req entities.PagePayRequest) (string, error)
	QueryTrade(ctx context.Context, orderID int64) (*entities.TradeQueryResult, error)
	Refund(ctx context.Context, req entities.RefundRequest) (*entities.RefundResult, error)
	VerifyNotification(values url.Values) (*entities.PaymentNotification, error)
}

type serviceLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
