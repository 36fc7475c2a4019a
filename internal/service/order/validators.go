package order

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"shop/internal/entities"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// maxOrderTotal верхняя граница orders.total_price NUMERIC(10, 2).
var maxOrderTotal = decimal.RequireFromString("99999999.99")

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateCreateOrder(req entities.CreateOrderRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	return nil
}

func validateTotal(total decimal.Decimal) error {
	if total.GreaterThan(maxOrderTotal) {
		return fmt.Errorf("%w: order total %s exceeds %s", ErrInvalidRequest, total.StringFixed(2), maxOrderTotal.StringFixed(2))
	}
	return nil
}

func isValidID(id int64) bool {
	return id > 0
}

func normalizeFilter(filter entities.OrderFilter) entities.OrderFilter {
	if filter.Limit == 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	return filter
}
