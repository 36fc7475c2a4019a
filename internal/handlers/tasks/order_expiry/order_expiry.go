package order_expiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop/pkg/locker"
	"shop/pkg/logger"
)

const (
	lockKey        = "order-expiry"
	releaseTimeout = 5 * time.Second
)

type OrderExpiry struct {
	log      taskLogger
	service  Service
	locker   Locker
	interval time.Duration
	lockTTL  time.Duration
}

func NewOrderExpiry(log taskLogger, service Service, locker Locker, interval, lockTTL time.Duration) *OrderExpiry {
	return &OrderExpiry{
		log:      log,
		service:  service,
		locker:   locker,
		interval: interval,
		lockTTL:  lockTTL,
	}
}

func (o *OrderExpiry) TTL() time.Duration {
	return o.interval
}

// Do выполняет один проход, если удалось взять блокировку. Реплики, проигравшие
// блокировку, пропускают проход без ошибки.
func (o *OrderExpiry) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	lease, err := o.locker.TryLock(ctxWithTimeout, lockKey, o.lockTTL)
	if err != nil {
		if errors.Is(err, locker.ErrNotAcquired) {
			SweepsTotal.WithLabelValues("skipped").Inc()
			o.log.Info("order expiry: lock held by another replica")
			return nil
		}
		SweepsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("acquire order expiry lock: %w", err)
	}
	defer o.release(ctx, lease)

	start := time.Now()
	cancelled, err := o.service.CancelExpiredOrders(ctxWithTimeout, start.UTC())
	SweepDuration.Observe(time.Since(start).Seconds())

	if cancelled > 0 {
		o.log.With(
			logger.NewField("cancelled_orders", cancelled),
		).Info("order expiry")
	}

	if err != nil {
		SweepsTotal.WithLabelValues("error").Inc()
		return err
	}

	SweepsTotal.WithLabelValues("ok").Inc()
	return nil
}

func (o *OrderExpiry) Info() string {
	return "order expiry"
}

func (o *OrderExpiry) release(ctx context.Context, lease locker.Lease) {
	// проход мог съесть весь таймаут, снимаем блокировку отдельным контекстом
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	err := lease.Release(releaseCtx)
	if err != nil {
		o.log.Warn("order expiry: release lock", logger.ErrorField(err))
	}
}
