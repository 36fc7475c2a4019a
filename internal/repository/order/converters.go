package order

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"shop/internal/entities"
)

func ToDomain(o *OrderDB) *entities.Order {
	if o == nil {
		return nil
	}

	order := &entities.Order{
		ID:         o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		TotalPrice: numericToDecimal(o.TotalPrice),
		Status:     entities.OrderStatusType(o.Status),
		ExpiresAt:  o.ExpiresAt,
		TradeNo:    o.TradeNo,
		PaidAt:     o.PaidAt,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}

	if o.ReceiverName != nil || o.ReceiverPhone != nil || o.FullAddress != nil {
		order.Address = &entities.ShippingAddress{
			ReceiverName:  deref(o.ReceiverName),
			ReceiverPhone: deref(o.ReceiverPhone),
			FullAddress:   deref(o.FullAddress),
		}
	}

	return order
}

func ToDomainList(orders []OrderDB) []entities.Order {
	result := make([]entities.Order, 0, len(orders))
	for i := range orders {
		result = append(result, *ToDomain(&orders[i]))
	}
	return result
}

func FromDomainModify(o *entities.OrderModify) *OrderModifyDB {
	if o == nil {
		return nil
	}
	orderModifyDB := &OrderModifyDB{
		UserID:    o.UserID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		ExpiresAt: o.ExpiresAt,
	}

	if o.TotalPrice != nil {
		total := o.TotalPrice.StringFixed(2)
		orderModifyDB.TotalPrice = &total
	}
	if o.Status != nil {
		status := o.Status.String()
		orderModifyDB.Status = &status
	}
	if o.Address != nil {
		orderModifyDB.ReceiverName = &o.Address.ReceiverName
		orderModifyDB.ReceiverPhone = &o.Address.ReceiverPhone
		orderModifyDB.FullAddress = &o.Address.FullAddress
	}

	return orderModifyDB
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
