package product

import (
	"context"
	"fmt"

	"shop/internal/entities"
	"shop/internal/repository"
	"shop/internal/service/order"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Product, error) {
	query := `SELECT id, name, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1`

	var productDB ProductDB
	err := r.querier.QueryRow(ctx, query, id).
		Scan(
			&productDB.ID,
			&productDB.Name,
			&productDB.Price,
			&productDB.Stock,
			&productDB.CreatedAt,
			&productDB.UpdatedAt,
		)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, order.ErrProductNotFound
		}
		return nil, fmt.Errorf("unexpected product repository getbyid error: %w", err)
	}

	return ToDomain(&productDB), nil
}

// ReserveStock условный декремент: списывает quantity только пока остатка хватает.
// Если конкурентный заказ уже забрал остаток, строка не попадает под WHERE.
func (r *Repository) ReserveStock(ctx context.Context, id, quantity int64) error {
	query := `
		UPDATE products
		SET stock = stock - $2,
			updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	result, err := r.querier.Exec(ctx, query, id, quantity)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation) {
			return order.ErrInsufficientStock
		}
		return fmt.Errorf("unexpected product repository reserve stock error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return order.ErrInsufficientStock
	}

	return nil
}

// RestockStock безусловный инкремент. Вызывается только внутри перехода
// в cancelled/refunded, который сам защищён условием на прежний статус.
func (r *Repository) RestockStock(ctx context.Context, id, quantity int64) error {
	query := `
		UPDATE products
		SET stock = stock + $2,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("unexpected product repository restock error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return order.ErrProductNotFound
	}

	return nil
}
