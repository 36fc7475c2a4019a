//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_create_post_test
package payment_create_post

import (
	"context"

	"shop/internal/entities"
	"shop/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	CreatePayment(ctx context.Context, actor entities.Actor, orderID int64) (*entities.PaymentIntent, error)
}
