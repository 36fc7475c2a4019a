package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"shop/internal/app"
	"shop/internal/handlers/rest/healthcheck_head"
	"shop/internal/pkg/config"
	"shop/internal/pkg/dotenv"
	"shop/internal/pkg/kafka"
	metrics_system "shop/internal/pkg/metrics"
	"shop/internal/pkg/postgres"
	"shop/internal/pkg/redis"
	"shop/pkg/logger"
	"shop/pkg/logger/zap_adapter"
)

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"), logger.NewField("process", "shop-order-expiry"))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting order-expiry worker")

	loaded, err := dotenv.Load(".env.local", ".env")
	if err != nil {
		mainLog.Error("failed to load env files", logger.ErrorField(err))
		return
	}
	if len(loaded) == 0 {
		mainLog.Warn("no .env files found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config",
			logger.NewField("error", err),
		)
		return
	}

	err = run(context.Background(), appLogger, cfg)
	if err != nil {
		mainLog.Error("application failed",
			logger.NewField("error", err),
		)
		return
	}
}

//nolint:contextcheck // Получаю предупреждения от линтера в местах де наследуюсь от context.Background(), хотя это часть gracefull shutdown
func run(ctx context.Context, log logger.Logger, cfg *config.Config) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second

		systemMetricsInterval = 5 * time.Second
	)

	if cfg.Tasks.HealthcheckPort == "" {
		return errors.New("WORKER_HTTP_HEALTHCHECK_PORT is required")
	}

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, log, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() {
		err := redisClient.Close()
		if err != nil {
			runLog.Error("failed to close Redis client",
				logger.NewField("error", err),
			)
		}
	}()

	producer, err := kafka.NewSyncProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer func() {
		err := producer.Close()
		if err != nil {
			runLog.Error("failed to close Kafka producer",
				logger.NewField("error", err),
			)
		}
	}()

	paymentClient := &http.Client{Timeout: cfg.Payment.RequestTimeout}

	// ongoingCtx живёт до конца остановки: на нём крутятся фоновые задачи и
	// healthcheck сервер, а ctx отменяется сразу по сигналу.
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	workerApp, err := app.InitializeOrderExpiryWorkerApp(ongoingCtx, log, pool, pgxv5.DefaultCtxGetter, producer, paymentClient, redisClient, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ongoingCtx, systemMetricsInterval)

	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Tasks.HealthcheckPort),
		Handler: initHealthcheckRouter(&isShuttingDown, pool, redis.HealthProbe{Client: redisClient}),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	healthServerErr := make(chan error, 1)
	go func() {
		defer close(healthServerErr)

		runLog.With(
			logger.NewField("port", cfg.Tasks.HealthcheckPort),
		).Info("Server starting")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			healthServerErr <- err
		}
	}()

	runLog.With(
		logger.NewField("interval", cfg.Tasks.OrderExpiryInterval.String()),
		logger.NewField("batch_size", cfg.Tasks.OrderExpiryBatchSize),
	).Info("Order expiry sweeper started")

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-healthServerErr:
		return fmt.Errorf("healthcheck server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("Stopping background tasks")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	err = healthServer.Shutdown(shutdownCtx)
	if err != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	stopOngoingGracefully()

	if err := workerApp.BackgroundWorkers.Wait(); err != nil {
		runLog.With(logger.NewField("error", err)).Error("Background tasks stopped with error")
	}

	runLog.Info("Worker stopped")
	return nil
}

func initHealthcheckRouter(isShuttingDown *atomic.Bool, dependencies ...healthcheck_head.Dependency) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, dependencies...))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
