package alipay

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"shop/internal/entities"
	"shop/internal/service/payment"
)

func toTradeQueryResult(resp *queryResponse) (*entities.TradeQueryResult, error) {
	amount, err := decimal.NewFromString(resp.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: total_amount %q", payment.ErrGatewayUnavailable, resp.TotalAmount)
	}

	return &entities.TradeQueryResult{
		Found:       true,
		TradeNo:     resp.TradeNo,
		Status:      entities.TradeStatus(resp.TradeStatus),
		TotalAmount: amount,
	}, nil
}

func toRefundResult(resp *refundResponse) (*entities.RefundResult, error) {
	fee, err := decimal.NewFromString(resp.RefundFee)
	if err != nil {
		return nil, fmt.Errorf("%w: refund_fee %q", payment.ErrGatewayUnavailable, resp.RefundFee)
	}

	return &entities.RefundResult{
		TradeNo:   resp.TradeNo,
		RefundFee: fee,
	}, nil
}

func toNotification(values url.Values) (*entities.PaymentNotification, error) {
	orderID, err := strconv.ParseInt(values.Get("out_trade_no"), 10, 64)
	if err != nil || orderID <= 0 {
		return nil, fmt.Errorf("%w: out_trade_no %q", payment.ErrInvalidNotification, values.Get("out_trade_no"))
	}

	amount, err := decimal.NewFromString(values.Get("total_amount"))
	if err != nil {
		return nil, fmt.Errorf("%w: total_amount %q", payment.ErrInvalidNotification, values.Get("total_amount"))
	}

	status := entities.TradeStatus(values.Get("trade_status"))
	if status == "" {
		return nil, fmt.Errorf("%w: empty trade_status", payment.ErrInvalidNotification)
	}

	return &entities.PaymentNotification{
		NotifyID:    values.Get("notify_id"),
		OrderID:     orderID,
		TradeNo:     values.Get("trade_no"),
		Status:      status,
		TotalAmount: amount,
	}, nil
}

func outTradeNo(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}
