package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"shop/internal/entities"
	"shop/internal/repository"
	"shop/internal/service/order"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var orderColumns = []string{
	"id", "user_id", "product_id", "quantity", "total_price", "status",
	"receiver_name", "receiver_phone", "full_address",
	"expires_at", "trade_no", "paid_at", "created_at", "updated_at",
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, orderModify entities.OrderModify) (*entities.Order, error) {
	orderModifyDB := FromDomainModify(&orderModify)

	query, args, err := qb.
		Insert("orders").
		Columns(
			"user_id", "product_id", "quantity", "total_price", "status",
			"receiver_name", "receiver_phone", "full_address", "expires_at",
		).
		Values(
			orderModifyDB.UserID,
			orderModifyDB.ProductID,
			orderModifyDB.Quantity,
			orderModifyDB.TotalPrice,
			orderModifyDB.Status,
			orderModifyDB.ReceiverName,
			orderModifyDB.ReceiverPhone,
			orderModifyDB.FullAddress,
			orderModifyDB.ExpiresAt,
		).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	orderDB, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return nil, order.ErrProductNotFound
		}
		return nil, fmt.Errorf("unexpected order repository create error: %w", err)
	}

	return ToDomain(orderDB), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Order, error) {
	query, args, err := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	orderDB, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	return ToDomain(orderDB), nil
}

func (r *Repository) List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	builder := qb.
		Select(orderColumns...).
		From("orders")

	// опционные фильтры
	if filter.UserID != nil {
		builder = builder.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}

	builder = builder.
		OrderBy("created_at DESC", "id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}

	return r.queryOrders(ctx, "list", query, args...)
}

func (r *Repository) ListExpiredPending(ctx context.Context, now time.Time, limit uint64) ([]entities.Order, error) {
	query, args, err := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": entities.OrderPending.String()}).
		Where(sq.Lt{"expires_at": now}).
		OrderBy("expires_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list expired error: %w", err)
	}

	return r.queryOrders(ctx, "list expired", query, args...)
}

// UpdateStatus меняет статус только если заказ всё ещё в статусе from.
// Ни одной затронутой строки: статус уже изменил кто-то другой.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to entities.OrderStatusType,
	change entities.StatusChange,
) (*entities.Order, error) {
	builder := qb.
		Update("orders").
		Set("status", to.String())

	if change.TradeNo != nil {
		builder = builder.Set("trade_no", *change.TradeNo)
	}
	if change.PaidAt != nil {
		builder = builder.Set("paid_at", *change.PaidAt)
	}

	builder = builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "status": from.String()}).
		Suffix(returning())

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository update status error: %w", err)
	}

	orderDB, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, fmt.Errorf("%w: order %d is no longer %s", order.ErrStatusConflict, id, from)
		}
		return nil, fmt.Errorf("unexpected order repository update status error: %w", err)
	}

	return ToDomain(orderDB), nil
}

func (r *Repository) queryOrders(ctx context.Context, op, query string, args ...interface{}) ([]entities.Order, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository %s error: %w", op, err)
	}
	defer rows.Close()

	var orders []OrderDB
	for rows.Next() {
		orderDB, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected order repository %s scan error: %w", op, err)
		}
		orders = append(orders, *orderDB)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository %s rows error: %w", op, err)
	}

	return ToDomainList(orders), nil
}

func scanOrder(row pgx.Row) (*OrderDB, error) {
	var orderDB OrderDB
	err := row.Scan(
		&orderDB.ID,
		&orderDB.UserID,
		&orderDB.ProductID,
		&orderDB.Quantity,
		&orderDB.TotalPrice,
		&orderDB.Status,
		&orderDB.ReceiverName,
		&orderDB.ReceiverPhone,
		&orderDB.FullAddress,
		&orderDB.ExpiresAt,
		&orderDB.TradeNo,
		&orderDB.PaidAt,
		&orderDB.CreatedAt,
		&orderDB.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &orderDB, nil
}

func returning() string {
	return "RETURNING " + strings.Join(orderColumns, ", ")
}
