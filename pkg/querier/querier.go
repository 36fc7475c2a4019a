package querier

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	executorTx   = "tx"
	executorPool = "pool"
)

// Querier выполняет запрос в транзакции из контекста, а без неё напрямую на пуле.
// Условные UPDATE репозиториев полагаются на то, что внутри TxManager.Do все
// запросы идут через одну транзакцию.
type Querier struct {
	pool   *pgxpool.Pool
	getter *pgxv5.CtxGetter
}

func New(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *Querier {
	return &Querier{
		pool:   pool,
		getter: getter,
	}
}

func (q *Querier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	executor, kind := q.get(ctx)

	start := time.Now()
	tag, err := executor.Exec(ctx, sql, args...)
	observe("exec", kind, start, err)

	return tag, err
}

func (q *Querier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	executor, kind := q.get(ctx)

	start := time.Now()
	rows, err := executor.Query(ctx, sql, args...)
	observe("query", kind, start, err)

	return rows, err
}

// QueryRow ошибку отдаёт только Scan, поэтому здесь считается лишь время отправки.
func (q *Querier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	executor, kind := q.get(ctx)

	start := time.Now()
	row := executor.QueryRow(ctx, sql, args...)
	observe("query_row", kind, start, nil)

	return row
}

func (q *Querier) get(ctx context.Context) (pgxv5.Tr, string) {
	if tr := q.getter.DefaultTrOrDB(ctx, nil); tr != nil {
		return tr, executorTx
	}
	return q.pool, executorPool
}

func observe(op, executor string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	QueryDuration.WithLabelValues(op, executor).Observe(time.Since(start).Seconds())
	QueriesTotal.WithLabelValues(op, executor, result).Inc()
}
