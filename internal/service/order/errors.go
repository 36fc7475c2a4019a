package order

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidOrderID   = errors.New("invalid order id")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidProductID = errors.New("invalid product id")

	ErrForbidden = errors.New("access to order denied")

	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")

	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("order status does not allow this action")
	ErrStatusConflict    = errors.New("order status changed concurrently")
	ErrOrderExpired      = errors.New("order expired")
)
