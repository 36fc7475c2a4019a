package entities

import "github.com/shopspring/decimal"

type TradeStatus string

const (
	TradeWaitBuyerPay TradeStatus = "WAIT_BUYER_PAY"
	TradeSuccess      TradeStatus = "TRADE_SUCCESS"
	TradeFinished     TradeStatus = "TRADE_FINISHED"
	TradeClosed       TradeStatus = "TRADE_CLOSED"
)

func (s TradeStatus) IsPaid() bool {
	return s == TradeSuccess || s == TradeFinished
}

func (s TradeStatus) String() string {
	return string(s)
}

type PaymentIntent struct {
	OrderID int64
	PayURL  string
}

type PagePayRequest struct {
	OrderID int64
	Amount  decimal.Decimal
	Subject string
}

type TradeQueryResult struct {
	Found       bool
	TradeNo     string
	Status      TradeStatus
	TotalAmount decimal.Decimal
}

type RefundRequest struct {
	OrderID   int64
	Amount    decimal.Decimal
	RequestNo string
	Reason    string
}

type RefundResult struct {
	TradeNo   string
	RefundFee decimal.Decimal
}

// PaymentNotification разобранное и уже проверенное по подписи уведомление провайдера.
type PaymentNotification struct {
	NotifyID    string
	OrderID     int64
	TradeNo     string
	Status      TradeStatus
	TotalAmount decimal.Decimal
}

// PaymentReconciliation итог сверки заказа с провайдером.
type PaymentReconciliation struct {
	OrderID int64
	Status  OrderStatusType
	TradeNo string
}
