package payment

import "errors"

var (
	ErrInvalidSignature    = errors.New("invalid provider signature")
	ErrInvalidNotification = errors.New("malformed payment notification")
	ErrAmountMismatch      = errors.New("paid amount does not match order total")

	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrRefundRejected     = errors.New("refund rejected by payment gateway")
	ErrTradeNotClosable   = errors.New("trade can no longer be closed")
)
