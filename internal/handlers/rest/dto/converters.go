package dto

import (
	"fmt"
	"net/url"
	"strconv"

	"shop/internal/entities"
)

const moneyPlaces = 2

func FromProduct(p *entities.Product) Product {
	return Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.StringFixed(moneyPlaces),
		Stock: p.Stock,
	}
}

func FromOrder(o *entities.Order) Order {
	res := Order{
		ID:         o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice.StringFixed(moneyPlaces),
		Status:     o.Status.String(),
		ExpiresAt:  o.ExpiresAt,
		TradeNo:    o.TradeNo,
		PaidAt:     o.PaidAt,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}

	if o.Address != nil {
		res.Address = &ShippingAddress{
			ReceiverName:  o.Address.ReceiverName,
			ReceiverPhone: o.Address.ReceiverPhone,
			FullAddress:   o.Address.FullAddress,
		}
	}
	return res
}

func FromOrders(orders []entities.Order, filter entities.OrderFilter) OrderList {
	res := OrderList{
		Orders: make([]Order, 0, len(orders)),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i := range orders {
		res.Orders = append(res.Orders, FromOrder(&orders[i]))
	}
	return res
}

func (c OrderCreate) ToEntity() entities.CreateOrderRequest {
	req := entities.CreateOrderRequest{
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
	}
	if c.Address != nil {
		req.Address = &entities.ShippingAddress{
			ReceiverName:  c.Address.ReceiverName,
			ReceiverPhone: c.Address.ReceiverPhone,
			FullAddress:   c.Address.FullAddress,
		}
	}
	return req
}

// OrderFilterFromQuery разбирает status, user_id, limit и offset. Лимит по
// умолчанию и его потолок выставляет сервис.
func OrderFilterFromQuery(q url.Values) (entities.OrderFilter, error) {
	var filter entities.OrderFilter

	if s := q.Get("status"); s != "" {
		status, err := entities.ParseOrderStatus(s)
		if err != nil {
			return entities.OrderFilter{}, err
		}
		filter.Status = &status
	}

	if s := q.Get("user_id"); s != "" {
		userID, err := strconv.ParseInt(s, 10, 64)
		if err != nil || userID <= 0 {
			return entities.OrderFilter{}, fmt.Errorf("invalid user_id %q", s)
		}
		filter.UserID = &userID
	}

	limit, err := parseUint(q, "limit")
	if err != nil {
		return entities.OrderFilter{}, err
	}
	offset, err := parseUint(q, "offset")
	if err != nil {
		return entities.OrderFilter{}, err
	}
	filter.Limit = limit
	filter.Offset = offset

	return filter, nil
}

func parseUint(q url.Values, key string) (uint64, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}
