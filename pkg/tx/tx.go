package tx

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/avito-tech/go-transaction-manager/trm/settings"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TxDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_tx_duration_seconds",
			Help:    "Duration of database transactions",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"isolation", "result"},
	)
)

// Manager обёртка над trm: каждое изменение заказа идёт одной транзакцией.
type Manager struct {
	internal *manager.Manager
}

func New(db pgxv5.Transactional) *Manager {
	return &Manager{
		internal: manager.Must(pgxv5.NewDefaultFactory(db)),
	}
}

// Do выполняет fn в транзакции READ COMMITTED.
// Остатки и статусы меняются условными UPDATE (stock >= N, status = expected):
// при конкурентной записи postgres перепроверяет условие на свежей версии строки,
// и проигравший получает 0 затронутых строк, а не ошибку сериализации.
// Вложенный вызов присоединяется к внешней транзакции.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.execWithIsoLevel(ctx, pgx.ReadCommitted, fn)
}

func (m *Manager) execWithIsoLevel(
	ctx context.Context,
	level pgx.TxIsoLevel,
	fn func(ctx context.Context) error,
) error {
	txSettings := pgxv5.MustSettings(
		settings.Must(),
		pgxv5.WithTxOptions(pgx.TxOptions{IsoLevel: level}),
	)

	start := time.Now()
	err := m.internal.DoWithSettings(ctx, txSettings, fn)

	result := "commit"
	if err != nil {
		result = "rollback"
	}
	TxDuration.WithLabelValues(string(level), result).Observe(time.Since(start).Seconds())

	return err
}
