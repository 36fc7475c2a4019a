//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_notify_post_test
package payment_notify_post

import (
	"context"
	"net/url"

	"shop/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	HandleNotification(ctx context.Context, values url.Values) string
}
