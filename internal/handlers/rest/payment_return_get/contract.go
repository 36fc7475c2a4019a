//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_return_get_test
package payment_return_get

import (
	"context"

	"shop/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	HandleReturn(ctx context.Context, outTradeNo string) string
}
