package locker

import (
	"context"
	"errors"
	"time"
)

var ErrNotAcquired = errors.New("lock is held by another owner")

// Locker выдаёт эксклюзивную аренду ключа на ttl между репликами.
type Locker interface {
	// TryLock не ждёт освобождения: занятый ключ сразу даёт ErrNotAcquired.
	TryLock(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

type Lease interface {
	Release(ctx context.Context) error
}
