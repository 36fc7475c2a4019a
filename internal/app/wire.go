//go:build wireinject
// +build wireinject

package app

import (
	"context"
	"net/http"

	"shop/internal/gateway/alipay"
	"shop/internal/gateway/kafka/order_events"
	"shop/internal/handlers/tasks/order_expiry"
	"shop/internal/pkg/config"

	orderRepo "shop/internal/repository/order"
	productRepo "shop/internal/repository/product"
	orderService "shop/internal/service/order"
	paymentService "shop/internal/service/payment"

	"shop/pkg/locker/redis_adapter"
	"shop/pkg/logger"
	"shop/pkg/tx"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var domainSet = wire.NewSet(
	provideTxManager,
	provideQuerier,

	provideOrderRepository,
	provideProductRepository,
	providePaymentGateway,
	provideEventPublisher,
	provideOrderService,

	wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
	wire.Bind(new(orderService.ProductRepository), new(*productRepo.Repository)),
	wire.Bind(new(orderService.PaymentGateway), new(*alipay.Gateway)),
	wire.Bind(new(orderService.EventPublisher), new(*order_events.Publisher)),
	wire.Bind(new(orderService.TxManager), new(*tx.Manager)),
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer sarama.SyncProducer,
	httpClient *http.Client,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		domainSet,
		providePaymentService,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceOrder), new(*orderService.Service)),
		wire.Bind(new(ServicePayment), new(*paymentService.Service)),
		wire.Bind(new(paymentService.OrderService), new(*orderService.Service)),
		wire.Bind(new(paymentService.Gateway), new(*alipay.Gateway)),
	)
	return &Application{}, nil
}

// InitializeOrderExpiryWorkerApp для воркера просроченных заказов (cmd/worker-order-expiry)
func InitializeOrderExpiryWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer sarama.SyncProducer,
	httpClient *http.Client,
	redisClient *redis.Client,
	cfg *config.Config,
) (*OrderExpiryWorkerApp, error) {
	wire.Build(
		domainSet,
		provideLocker,
		provideOrderExpiryTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(OrderExpiryWorkerApp), "*"),

		wire.Bind(new(order_expiry.Service), new(*orderService.Service)),
		wire.Bind(new(order_expiry.Locker), new(*redis_adapter.Locker)),
	)
	return nil, nil
}
