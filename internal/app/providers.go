package app

import (
	"context"
	"net/http"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"shop/internal/gateway/alipay"
	"shop/internal/gateway/kafka/order_events"
	"shop/internal/handlers/tasks/order_expiry"
	"shop/internal/pkg/config"
	orderRepo "shop/internal/repository/order"
	productRepo "shop/internal/repository/product"
	orderService "shop/internal/service/order"
	paymentService "shop/internal/service/payment"
	"shop/pkg/background"
	"shop/pkg/locker/redis_adapter"
	"shop/pkg/logger"
	"shop/pkg/querier"
	"shop/pkg/tx"
)

const lockNamespace = "shop"

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideProductRepository(querier *querier.Querier) *productRepo.Repository {
	return productRepo.New(querier)
}

func providePaymentGateway(cfg *config.Config, httpClient *http.Client) (*alipay.Gateway, error) {
	return alipay.New(alipay.Config{
		AppID:             cfg.Payment.AppID,
		PrivateKey:        cfg.Payment.PrivateKey,
		ProviderPublicKey: cfg.Payment.ProviderPublicKey,
		GatewayURL:        cfg.Payment.GatewayURL,
		NotifyURL:         cfg.Payment.NotifyURL,
		ReturnURL:         cfg.Payment.ReturnURL,
	}, httpClient)
}

func provideEventPublisher(producer sarama.SyncProducer, cfg *config.Config) *order_events.Publisher {
	return order_events.New(producer, cfg.Kafka.Topic, order_events.WithTimeout(cfg.Kafka.PublishTimeout))
}

func provideOrderService(
	log logger.Logger,
	repository orderService.Repository,
	productRepository orderService.ProductRepository,
	gateway orderService.PaymentGateway,
	publisher orderService.EventPublisher,
	txManager orderService.TxManager,
	cfg *config.Config,
) *orderService.Service {
	return orderService.New(
		log,
		repository,
		productRepository,
		gateway,
		publisher,
		txManager,
		orderService.Config{
			OrderTTL:       cfg.Orders.TTL,
			SweepBatchSize: uint64(cfg.Tasks.OrderExpiryBatchSize),
			PublishTimeout: cfg.Kafka.PublishTimeout,
		},
	)
}

func providePaymentService(
	log logger.Logger,
	orders paymentService.OrderService,
	gateway paymentService.Gateway,
	cfg *config.Config,
) *paymentService.Service {
	return paymentService.New(log, orders, gateway, paymentService.Config{
		FrontendReturnURL: cfg.Payment.FrontendReturnURL,
	})
}

func provideLocker(client *redis.Client) *redis_adapter.Locker {
	return redis_adapter.New(client, lockNamespace)
}

func provideOrderExpiryTask(
	log logger.Logger,
	service order_expiry.Service,
	locker order_expiry.Locker,
	cfg *config.Config,
) *order_expiry.OrderExpiry {
	return order_expiry.NewOrderExpiry(
		log,
		service,
		locker,
		cfg.Tasks.OrderExpiryInterval,
		cfg.Tasks.OrderExpiryLockTTL,
	)
}

func provideTaskList(
	orderExpiryTask *order_expiry.OrderExpiry,
) []background.Task {
	return []background.Task{
		orderExpiryTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
