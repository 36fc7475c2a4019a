//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=orders_user_get_test
package orders_user_get

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
	ListUserOrders(ctx context.Context, actor entities.Actor, userID int64, filter entities.OrderFilter) ([]entities.Order, error)
}
