package backoff_adapter

import (
	"context"
	"fmt"
	"time"

	"shop/pkg/logger"
	"shop/pkg/retrier"
)

// WaitReady опрашивает зависимость при старте процесса, пока probe не ответит
// без ошибки или не кончится бюджет ретраев из cfg.
func WaitReady(
	ctx context.Context,
	log readyLogger,
	dependency string,
	cfg retrier.Config,
	probe func(context.Context) error,
) error {
	cfg.OnRetry = func(err error, attempt uint64, next time.Duration) {
		log.Warn(dependency+" is not ready",
			logger.ErrorField(err),
			logger.NewField("attempt", attempt),
			logger.NewField("retry_in", next.String()),
		)
	}

	var attempts uint64
	err := New(cfg).ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempts++
		return probe(ctx)
	})
	if err != nil {
		log.Error(dependency+" connection failed after retries",
			logger.ErrorField(err),
			logger.NewField("attempts", attempts),
		)
		return fmt.Errorf("%s is not ready: %w", dependency, err)
	}

	log.Info(dependency+" connection established", logger.NewField("attempts", attempts))
	return nil
}
