package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	application "shop/internal/app"
	"shop/internal/handlers/rest/admin_order_status_patch"
	"shop/internal/handlers/rest/admin_orders_get"
	"shop/internal/handlers/rest/healthcheck_head"
	"shop/internal/handlers/rest/order_cancel_post"
	"shop/internal/handlers/rest/order_get"
	"shop/internal/handlers/rest/order_post"
	"shop/internal/handlers/rest/orders_user_get"
	"shop/internal/handlers/rest/payment_create_post"
	"shop/internal/handlers/rest/payment_notify_post"
	"shop/internal/handlers/rest/payment_query_get"
	"shop/internal/handlers/rest/payment_refund_post"
	"shop/internal/handlers/rest/payment_return_get"
	"shop/internal/handlers/rest/ping_get"
	"shop/internal/handlers/rest/product_get"
	"shop/internal/pkg/config"
	"shop/internal/pkg/dotenv"
	"shop/internal/pkg/kafka"
	metrics_system "shop/internal/pkg/metrics"
	"shop/internal/pkg/middlewares/auth"
	"shop/internal/pkg/middlewares/graceful_shutdown"
	"shop/internal/pkg/middlewares/metrics"
	"shop/internal/pkg/middlewares/rate_limiter"
	"shop/internal/pkg/middlewares/timeout"
	"shop/internal/pkg/postgres"
	"shop/pkg/logger"
	"shop/pkg/logger/zap_adapter"
	"shop/pkg/token_bucket"
)

func main() {
	portFlag := flag.String("port", "", "Server port (overrides PORT environment variable)")
	flag.Parse()

	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"), logger.NewField("process", "shop-api"))
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

	mainLog.Info("starting shop application")

	loaded, err := dotenv.Load(".env.local", ".env")
	if err != nil {
		mainLog.Error("failed to load env files", logger.ErrorField(err))
		return
	}
	if len(loaded) == 0 {
		mainLog.Warn("no .env files found, using system environment variables")
	}

	if err := dotenv.OverrideEnv("PORT", *portFlag); err != nil {
		mainLog.Error("apply flags", logger.ErrorField(err))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // Получаю предупреждения от линтера в местах де наследуюсь от context.Background(), хотя это часть gracefull shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second

		systemMetricsInterval = 5 * time.Second
	)

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

	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, producer, paymentClient, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ctx, systemMetricsInterval)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, pool, businessApp, cfg),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofMux := http.NewServeMux()
		pprofMux.Handle("/debug/pprof/", http.DefaultServeMux)

		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown, pool),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // if !cfg.Server.PprofEnabled будет nil по умолчанию, и данный кейс будет проигнорирован
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)

	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	runLog.Info("Server stopped")
	return nil
}

func initRouter(ongoingCtx context.Context, log logger.Logger, isShuttingDown *atomic.Bool, pool *pgxpool.Pool, app *application.Application, cfg *config.Config) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.Server.RequestTimeout))
	router.Use(metrics.Middleware(log))
	limiter := token_bucket.NewTokenBucket(cfg.Server.RateLimiterBurst, float64(cfg.Server.RateLimiterQPS))
	router.Use(rate_limiter.Middleware(log, limiter, "/healthcheck", "/metrics", "/payment/notify"))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pool)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log)).Methods("GET")

	router.Handle("/products/{id}", product_get.New(log, app.ServiceOrder)).Methods("GET")

	// провайдер и браузер покупателя приходят без токена
	router.Handle("/payment/notify", payment_notify_post.New(log, app.ServicePayment)).Methods("POST")
	router.Handle("/payment/return", payment_return_get.New(log, app.ServicePayment)).Methods("GET")

	protected := router.NewRoute().Subrouter()
	protected.Use(auth.Middleware(log, []byte(cfg.Auth.JWTSecret)))

	protected.Handle("/orders", order_post.New(log, app.ServiceOrder)).Methods("POST")
	protected.Handle("/orders/user/{userId}", orders_user_get.New(log, app.ServiceOrder)).Methods("GET")
	protected.Handle("/orders/{id}", order_get.New(log, app.ServiceOrder)).Methods("GET")
	protected.Handle("/orders/{id}/cancel", order_cancel_post.New(log, app.ServiceOrder)).Methods("POST")

	protected.Handle("/admin/orders", admin_orders_get.New(log, app.ServiceOrder)).Methods("GET")
	protected.Handle("/admin/orders/{id}/status", admin_order_status_patch.New(log, app.ServiceOrder)).Methods("PATCH")

	protected.Handle("/payment/create", payment_create_post.New(log, app.ServicePayment)).Methods("POST")
	protected.Handle("/payment/query/{orderId}", payment_query_get.New(log, app.ServicePayment)).Methods("GET")
	protected.Handle("/payment/refund", payment_refund_post.New(log, app.ServicePayment)).Methods("POST")

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool, pool *pgxpool.Pool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pool)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
