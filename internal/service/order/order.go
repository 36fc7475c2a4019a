package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"shop/internal/entities"
	"shop/pkg/logger"
)

type Config struct {
	OrderTTL       time.Duration
	SweepBatchSize uint64
	PublishTimeout time.Duration
}

type Service struct {
	log               serviceLogger
	repository        Repository
	productRepository ProductRepository
	gateway           PaymentGateway
	publisher         EventPublisher
	txManager         TxManager
	cfg               Config
}

func New(
	log serviceLogger,
	repository Repository,
	productRepository ProductRepository,
	gateway PaymentGateway,
	publisher EventPublisher,
	txManager TxManager,
	cfg Config,
) *Service {
	return &Service{
		log:               log.With(logger.NewField("service", "order")),
		repository:        repository,
		productRepository: productRepository,
		gateway:           gateway,
		publisher:         publisher,
		txManager:         txManager,
		cfg:               cfg,
	}
}

func (s *Service) CreateOrder(ctx context.Context, actor entities.Actor, req entities.CreateOrderRequest) (*entities.Order, error) {
	if !isValidID(actor.UserID) {
		return nil, ErrInvalidUserID
	}
	if err := validateCreateOrder(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var created *entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := s.productRepository.GetByID(ctx, req.ProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		// быстрый отказ без записи, окончательно решает условный UPDATE ниже
		if product.Stock < req.Quantity {
			return ErrInsufficientStock
		}

		total := product.Price.Mul(decimal.NewFromInt(req.Quantity)).Round(2)
		if err := validateTotal(total); err != nil {
			return err
		}

		err = s.productRepository.ReserveStock(ctx, product.ID, req.Quantity)
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}

		status := entities.OrderPending
		expiresAt := now.Add(s.cfg.OrderTTL)

		created, err = s.repository.Create(ctx, entities.OrderModify{
			UserID:     &actor.UserID,
			ProductID:  &product.ID,
			Quantity:   &req.Quantity,
			TotalPrice: &total,
			Status:     &status,
			Address:    req.Address,
			ExpiresAt:  &expiresAt,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	OrdersCreatedTotal.Inc()
	s.publish(ctx, entities.NewOrderEvent("", created, now))

	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, actor entities.Actor, id int64) (*entities.Order, error) {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(order) {
		return nil, ErrForbidden
	}
	return order, nil
}

// FindOrder без проверки доступа, для внутренних вызовов (платёжный модуль, вебхук).
func (s *Service) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	if !isValidID(id) {
		return nil, ErrInvalidOrderID
	}

	order, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*entities.Product, error) {
	if !isValidID(id) {
		return nil, ErrInvalidProductID
	}

	product, err := s.productRepository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *Service) ListUserOrders(ctx context.Context, actor entities.Actor, userID int64, filter entities.OrderFilter) ([]entities.Order, error) {
	if !isValidID(userID) {
		return nil, ErrInvalidUserID
	}
	if actor.UserID != userID && !actor.IsAdmin {
		return nil, ErrForbidden
	}

	filter = normalizeFilter(filter)
	filter.UserID = &userID

	orders, err := s.repository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

func (s *Service) ListOrders(ctx context.Context, actor entities.Actor, filter entities.OrderFilter) ([]entities.Order, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}

	orders, err := s.repository.List(ctx, normalizeFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Service) CancelOrder(ctx context.Context, actor entities.Actor, id int64) (*entities.Order, error) {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.IsOwnedBy(actor.UserID) {
		return nil, ErrForbidden
	}

	return s.cancel(ctx, order)
}

// ChangeStatus ручная смена статуса администратором, граф переходов тот же.
func (s *Service) ChangeStatus(ctx context.Context, actor entities.Actor, id int64, target entities.OrderStatusType) (*entities.Order, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}

	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	switch target {
	case entities.OrderCancelled:
		return s.cancel(ctx, order)
	case entities.OrderPaid:
		paidAt := time.Now().UTC()
		return s.Transition(ctx, order, target, entities.StatusChange{PaidAt: &paidAt})
	default:
		return s.Transition(ctx, order, target, entities.StatusChange{})
	}
}

// Transition переводит заказ из его текущего статуса в target одной транзакцией:
// условный UPDATE статуса и, для cancelled/refunded, возврат товара на склад.
// Возврат выполняется только если UPDATE статуса затронул строку, поэтому склад
// пополняется ровно один раз на заказ. Событие публикуется после коммита.
func (s *Service) Transition(ctx context.Context, order *entities.Order, target entities.OrderStatusType, change entities.StatusChange) (*entities.Order, error) {
	return s.transition(ctx, order, change, target)
}

// MarkPaid фиксирует оплату. Pending заказ проходит pending -> paying -> paid
// в одной транзакции: уведомление могло прийти раньше, чем заказ ушёл в paying.
func (s *Service) MarkPaid(ctx context.Context, order *entities.Order, change entities.StatusChange) (*entities.Order, error) {
	if order.Status == entities.OrderPending {
		return s.transition(ctx, order, change, entities.OrderPaying, entities.OrderPaid)
	}
	return s.transition(ctx, order, change, entities.OrderPaid)
}

// transition проходит path по графу статусов, change пишется последним шагом.
func (s *Service) transition(ctx context.Context, order *entities.Order, change entities.StatusChange, path ...entities.OrderStatusType) (*entities.Order, error) {
	from := order.Status
	for _, target := range path {
		if !from.CanTransitionTo(target) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		}
		from = target
	}

	var steps []*entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		steps = steps[:0]
		current := order.Status

		for i, target := range path {
			stepChange := entities.StatusChange{}
			if i == len(path)-1 {
				stepChange = change
			}

			updated, err := s.repository.UpdateStatus(ctx, order.ID, current, target, stepChange)
			if err != nil {
				return fmt.Errorf("update order status: %w", err)
			}

			if target.Restocks() {
				err = s.productRepository.RestockStock(ctx, order.ProductID, order.Quantity)
				if err != nil {
					return fmt.Errorf("restock product: %w", err)
				}
			}

			steps = append(steps, updated)
			current = target
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from = order.Status
	for i, updated := range steps {
		OrderTransitionsTotal.WithLabelValues(from.String(), path[i].String()).Inc()
		s.publish(ctx, entities.NewOrderEvent(from, updated, now))
		from = path[i]
	}

	return steps[len(steps)-1], nil
}

func (s *Service) cancel(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	if !order.Status.CanTransitionTo(entities.OrderCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, entities.OrderCancelled)
	}

	// у провайдера уже может быть открыта сделка, закрываем её до отмены,
	// чтобы покупатель не смог оплатить отменённый заказ
	if order.Status == entities.OrderPaying {
		err := s.gateway.CloseTrade(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("close trade: %w", err)
		}
	}

	return s.Transition(ctx, order, entities.OrderCancelled, entities.StatusChange{})
}

// publish не задерживает вызывающего дольше PublishTimeout: статус уже
// закоммичен, недоступный брокер не должен тормозить вебхук провайдера.
func (s *Service) publish(ctx context.Context, event entities.OrderEvent) {
	if s.cfg.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PublishTimeout)
		defer cancel()
	}

	err := s.publisher.PublishOrderEvent(ctx, event)
	if err != nil {
		s.log.Warn("publish order event",
			logger.NewField("order_id", event.OrderID),
			logger.NewField("event", event.Type()),
			logger.ErrorField(err),
		)
	}
}

func isConflict(err error) bool {
	return errors.Is(err, ErrStatusConflict) || errors.Is(err, ErrInvalidTransition)
}
