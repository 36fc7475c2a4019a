package product

import (
	"github.com/shopspring/decimal"
	"shop/internal/entities"
)

func ToDomain(p *ProductDB) *entities.Product {
	if p == nil {
		return nil
	}

	price := decimal.Zero
	if p.Price.Valid && p.Price.Int != nil {
		price = decimal.NewFromBigInt(p.Price.Int, p.Price.Exp)
	}

	return &entities.Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
