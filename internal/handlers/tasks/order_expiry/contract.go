//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_expiry_test
package order_expiry

import (
	"context"
	"time"

	"shop/pkg/locker"
	"shop/pkg/logger"
)

type Service interface {
	CancelExpiredOrders(ctx context.Context, now time.Time) (int64, error)
}

type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (locker.Lease, error)
}

type taskLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
