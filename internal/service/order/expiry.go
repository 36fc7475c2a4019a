package order

import (
	"context"
	"fmt"
	"time"

	"shop/internal/entities"
	"shop/pkg/logger"
)

// CancelExpiredOrders отменяет просроченные pending заказы, каждый в своей транзакции.
// Ошибка по одному заказу логируется и не прерывает обработку остальных.
func (s *Service) CancelExpiredOrders(ctx context.Context, now time.Time) (int64, error) {
	expired, err := s.repository.ListExpiredPending(ctx, now, s.cfg.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list expired orders: %w", err)
	}

	var cancelled int64
	for i := range expired {
		if err := ctx.Err(); err != nil {
			return cancelled, fmt.Errorf("sweep interrupted: %w", err)
		}

		order := &expired[i]
		orderLog := s.log.With(
			logger.NewField("order_id", order.ID),
			logger.NewField("expires_at", order.ExpiresAt),
		)

		_, err := s.Transition(ctx, order, entities.OrderCancelled, entities.StatusChange{})
		if err != nil {
			if isConflict(err) {
				// заказ успели перевести в paying или отменить между выборкой и UPDATE
				orderLog.Info("expired order already moved on, skipped", logger.ErrorField(err))
				continue
			}

			ExpiredOrdersFailedTotal.Inc()
			orderLog.Error("cancel expired order", logger.ErrorField(err))
			continue
		}

		cancelled++
		ExpiredOrdersCancelledTotal.Inc()
	}

	return cancelled, nil
}
