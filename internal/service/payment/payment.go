package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"shop/internal/entities"
	"shop/internal/service/order"
	"shop/pkg/logger"
)

// Ответы провайдеру на асинхронное уведомление.
const (
	NotifySuccess = "success"
	NotifyFailure = "failure"
)

const refundReason = "buyer requested refund"

type Config struct {
	// страница фронтенда, куда возвращается покупатель после оплаты
	FrontendReturnURL string
}

type Service struct {
	log     serviceLogger
	orders  OrderService
	gateway Gateway
	cfg     Config
	now     func() time.Time
}

func New(log serviceLogger, orders OrderService, gateway Gateway, cfg Config) *Service {
	return &Service{
		log:     log.With(logger.NewField("service", "payment")),
		orders:  orders,
		gateway: gateway,
		cfg:     cfg,
		now:     time.Now,
	}
}

// CreatePayment переводит заказ в paying и выдаёт ссылку на оплату.
// Повторный вызов для paying заказа выдаёт новую ссылку на ту же сделку.
func (s *Service) CreatePayment(ctx context.Context, actor entities.Actor, orderID int64) (*entities.PaymentIntent, error) {
	o, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.IsOwnedBy(actor.UserID) {
		return nil, order.ErrForbidden
	}

	if o.Status != entities.OrderPending && o.Status != entities.OrderPaying {
		return nil, fmt.Errorf("%w: cannot pay %s order", order.ErrInvalidTransition, o.Status)
	}

	if o.IsExpired(s.now()) {
		return nil, fmt.Errorf("%w: deadline %s", order.ErrOrderExpired, o.ExpiresAt.Format(time.RFC3339))
	}

	product, err := s.orders.GetProduct(ctx, o.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if o.Status == entities.OrderPending {
		o, err = s.orders.Transition(ctx, o, entities.OrderPaying, entities.StatusChange{})
		if err != nil {
			return nil, fmt.Errorf("start payment: %w", err)
		}
	}

	payURL, err := s.gateway.PagePayURL(ctx, entities.PagePayRequest{
		OrderID: o.ID,
		Amount:  o.TotalPrice,
		Subject: "Order payment: " + product.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("build pay url: %w", err)
	}

	return &entities.PaymentIntent{
		OrderID: o.ID,
		PayURL:  payURL,
	}, nil
}

// HandleNotification обрабатывает асинхронное уведомление провайдера и всегда
// возвращает токен для ответа: подробности ошибок остаются в логах.
func (s *Service) HandleNotification(ctx context.Context, values url.Values) string {
	n, err := s.gateway.VerifyNotification(values)
	if err != nil {
		s.log.Warn("payment notification rejected",
			logger.NewField("out_trade_no", values.Get("out_trade_no")),
			logger.ErrorField(err),
		)
		PaymentNotificationsTotal.WithLabelValues(values.Get("trade_status"), "rejected").Inc()
		return NotifyFailure
	}

	log := s.log.With(
		logger.NewField("order_id", n.OrderID),
		logger.NewField("trade_no", n.TradeNo),
		logger.NewField("trade_status", n.Status.String()),
		logger.NewField("notify_id", n.NotifyID),
	)

	err = s.applyNotification(ctx, n)
	if err != nil {
		log.Error("payment notification failed", logger.ErrorField(err))
		PaymentNotificationsTotal.WithLabelValues(n.Status.String(), "failed").Inc()
		return NotifyFailure
	}

	log.Info("payment notification processed")
	PaymentNotificationsTotal.WithLabelValues(n.Status.String(), "processed").Inc()
	return NotifySuccess
}

func (s *Service) applyNotification(ctx context.Context, n *entities.PaymentNotification) error {
	o, err := s.orders.FindOrder(ctx, n.OrderID)
	if err != nil {
		return err
	}

	if !n.TotalAmount.Equal(o.TotalPrice) {
		return fmt.Errorf("%w: notified %s, order %s", ErrAmountMismatch, n.TotalAmount.StringFixed(2), o.TotalPrice.StringFixed(2))
	}

	switch {
	case n.Status.IsPaid():
		_, err = s.markPaid(ctx, o, n.TradeNo)
	case n.Status == entities.TradeClosed:
		_, err = s.markClosed(ctx, o)
	case n.Status == entities.TradeWaitBuyerPay:
		return nil
	default:
		return fmt.Errorf("%w: trade_status %q", ErrInvalidNotification, n.Status)
	}
	return err
}

// QueryPayment сверяет заказ с провайдером по запросу владельца или администратора.
func (s *Service) QueryPayment(ctx context.Context, actor entities.Actor, orderID int64) (*entities.PaymentReconciliation, error) {
	o, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(o) {
		return nil, order.ErrForbidden
	}

	o, err = s.reconcile(ctx, o)
	if err != nil {
		return nil, err
	}

	return reconciliation(o), nil
}

// HandleReturn сверяет заказ после возврата покупателя со страницы оплаты и
// строит адрес редиректа на фронтенд. Ошибки сверки редирект не ломают.
func (s *Service) HandleReturn(ctx context.Context, outTradeNo string) string {
	orderID, err := strconv.ParseInt(outTradeNo, 10, 64)
	if err != nil || orderID <= 0 {
		return s.returnURL(url.Values{"error": {"invalid_return"}})
	}

	o, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		if !errors.Is(err, order.ErrOrderNotFound) {
			s.log.Error("payment return: find order", logger.NewField("order_id", orderID), logger.ErrorField(err))
		}
		return s.returnURL(url.Values{"error": {"order_not_found"}})
	}

	reconciled, err := s.reconcile(ctx, o)
	if err != nil {
		s.log.Warn("payment return: reconcile", logger.NewField("order_id", orderID), logger.ErrorField(err))
		reconciled = o
	}

	params := url.Values{
		"orderId": {strconv.FormatInt(reconciled.ID, 10)},
		"status":  {reconciled.Status.String()},
	}
	return s.returnURL(params)
}

// Refund возвращает покупателю полную сумму заказа и переводит его в refunded
// с возвратом товара на склад.
func (s *Service) Refund(ctx context.Context, actor entities.Actor, orderID int64) (*entities.Order, error) {
	o, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(o) {
		return nil, order.ErrForbidden
	}

	if !o.Status.CanTransitionTo(entities.OrderRefunded) {
		return nil, fmt.Errorf("%w: cannot refund %s order", order.ErrInvalidTransition, o.Status)
	}

	// номер запроса детерминирован: повтор после сбоя провайдер примет как тот же возврат
	result, err := s.gateway.Refund(ctx, entities.RefundRequest{
		OrderID:   o.ID,
		Amount:    o.TotalPrice,
		RequestNo: refundRequestNo(o.ID),
		Reason:    refundReason,
	})
	if err != nil {
		RefundsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("gateway refund: %w", err)
	}

	updated, err := s.orders.Transition(ctx, o, entities.OrderRefunded, entities.StatusChange{})
	if err != nil {
		// уведомление о закрытии сделки могло успеть перевести заказ раньше нас
		updated, err = s.settled(ctx, o.ID, err, entities.OrderRefunded)
	}
	if err != nil {
		RefundsTotal.WithLabelValues("failed").Inc()
		s.log.Error("refund accepted by provider but order not updated",
			logger.NewField("order_id", o.ID),
			logger.NewField("trade_no", result.TradeNo),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("mark refunded: %w", err)
	}

	RefundsTotal.WithLabelValues("refunded").Inc()
	return updated, nil
}

// reconcile подтягивает статус сделки у провайдера для заказов, ожидающих оплаты.
// Остальные статусы окончательны для провайдера и возвращаются как есть.
func (s *Service) reconcile(ctx context.Context, o *entities.Order) (*entities.Order, error) {
	if o.Status != entities.OrderPending && o.Status != entities.OrderPaying {
		return o, nil
	}

	trade, err := s.gateway.QueryTrade(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("query trade: %w", err)
	}

	if !trade.Found {
		return o, nil
	}

	var reconciled *entities.Order
	switch {
	case trade.Status.IsPaid():
		if !trade.TotalAmount.Equal(o.TotalPrice) {
			return nil, fmt.Errorf("%w: provider %s, order %s", ErrAmountMismatch, trade.TotalAmount.StringFixed(2), o.TotalPrice.StringFixed(2))
		}
		reconciled, err = s.markPaid(ctx, o, trade.TradeNo)
	case trade.Status == entities.TradeWaitBuyerPay:
		reconciled, err = s.markPaying(ctx, o)
	case trade.Status == entities.TradeClosed:
		reconciled, err = s.markClosed(ctx, o)
	default:
		return o, nil
	}
	if err != nil {
		return nil, err
	}

	PaymentReconciliationsTotal.WithLabelValues(reconciled.Status.String()).Inc()
	return reconciled, nil
}

// markPaid идемпотентен: paid и refunded заказы не меняются. Pending заказ
// переводится в paid через paying одной транзакцией на стороне заказов.
func (s *Service) markPaid(ctx context.Context, o *entities.Order, tradeNo string) (*entities.Order, error) {
	if o.Status == entities.OrderPaid || o.Status == entities.OrderRefunded {
		return o, nil
	}

	paidAt := s.now().UTC()
	paid, err := s.orders.MarkPaid(ctx, o, entities.StatusChange{
		TradeNo: &tradeNo,
		PaidAt:  &paidAt,
	})
	if err == nil {
		return paid, nil
	}

	return s.settled(ctx, o.ID, err, entities.OrderPaid, entities.OrderRefunded)
}

func (s *Service) markPaying(ctx context.Context, o *entities.Order) (*entities.Order, error) {
	if o.Status != entities.OrderPending {
		return o, nil
	}

	paying, err := s.orders.Transition(ctx, o, entities.OrderPaying, entities.StatusChange{})
	if err == nil {
		return paying, nil
	}

	return s.settled(ctx, o.ID, err, entities.OrderPaying, entities.OrderPaid, entities.OrderRefunded)
}

// markClosed: сделка закрыта у провайдера. Неоплаченный заказ отменяется,
// оплаченный закрывается полным возвратом. Оба пути возвращают товар на склад.
func (s *Service) markClosed(ctx context.Context, o *entities.Order) (*entities.Order, error) {
	var target entities.OrderStatusType
	switch o.Status {
	case entities.OrderPending, entities.OrderPaying:
		target = entities.OrderCancelled
	case entities.OrderPaid:
		target = entities.OrderRefunded
	default:
		return o, nil
	}

	closed, err := s.orders.Transition(ctx, o, target, entities.StatusChange{})
	if err == nil {
		return closed, nil
	}

	return s.settled(ctx, o.ID, err, entities.OrderCancelled, entities.OrderRefunded)
}

// settled разбирает проигранную гонку за статус: если заказ уже пришёл в одно из
// допустимых состояний, результат тот же, что при успешном переходе.
func (s *Service) settled(ctx context.Context, orderID int64, transitionErr error, accepted ...entities.OrderStatusType) (*entities.Order, error) {
	if !errors.Is(transitionErr, order.ErrStatusConflict) {
		return nil, transitionErr
	}

	current, err := s.orders.FindOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	for _, status := range accepted {
		if current.Status == status {
			return current, nil
		}
	}
	return nil, transitionErr
}

// returnURL дописывает params к query строке страницы фронтенда, сохраняя уже
// заданные в конфиге параметры.
func (s *Service) returnURL(params url.Values) string {
	u, err := url.Parse(s.cfg.FrontendReturnURL)
	if err != nil {
		return s.cfg.FrontendReturnURL + "?" + params.Encode()
	}

	query := u.Query()
	for key, values := range params {
		query[key] = values
	}
	u.RawQuery = query.Encode()

	return u.String()
}

func reconciliation(o *entities.Order) *entities.PaymentReconciliation {
	result := &entities.PaymentReconciliation{
		OrderID: o.ID,
		Status:  o.Status,
	}
	if o.TradeNo != nil {
		result.TradeNo = *o.TradeNo
	}
	return result
}

func refundRequestNo(orderID int64) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("shop:order:"+strconv.FormatInt(orderID, 10)+":refund")).String()
}
