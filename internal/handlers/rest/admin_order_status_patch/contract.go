//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=admin_order_status_patch_test
package admin_order_status_patch

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
	ChangeStatus(ctx context.Context, actor entities.Actor, id int64, target entities.OrderStatusType) (*entities.Order, error)
}
