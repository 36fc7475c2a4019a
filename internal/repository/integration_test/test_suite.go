package integration_test

import (
	"context"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"shop/internal/pkg/config"
	"shop/internal/pkg/migrate"
	"shop/internal/pkg/postgres"
	"shop/pkg/logger/zap_adapter"
	"shop/pkg/querier"
	"shop/pkg/tx"
)

const migrateTimeout = 30 * time.Second

var (
	poolInstance    *pgxpool.Pool
	querierInstance *querier.Querier
	suiteOnce       sync.Once
)

// setup один пул на весь прогон и схема из тех же миграций, что катит мигратор.
// Переменные окружения подгружает Makefile из .env.test.
func setup() {
	suiteOnce.Do(func() {
		cfg, err := config.LoadDatabase()
		if err != nil {
			log.Fatalf("integration config: %v", err)
		}

		zapLogger, err := zap_adapter.NewZapAdapter("error")
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() {
			if err := zapLogger.Sync(); err != nil {
				log.Printf("failed to sync logger: %v", err)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		defer cancel()

		poolInstance, err = postgres.NewConnPool(ctx, zapLogger, cfg)
		if err != nil {
			log.Fatalf("integration database: %v", err)
		}

		if err := migrate.Up(ctx, migrate.OpenFromPool(poolInstance)); err != nil {
			log.Fatalf("integration migrations: %v", err)
		}

		querierInstance = querier.New(poolInstance, pgxv5.DefaultCtxGetter)
	})
}

func GetQuerier() *querier.Querier {
	setup()
	return querierInstance
}

// GetTxManager менеджер на том же пуле и геттере, что и GetQuerier.
func GetTxManager() *tx.Manager {
	setup()
	return tx.New(poolInstance)
}

func SetupDB(t *testing.T, setupSql string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, setupSql)

	require.NoError(t, err)
}

func TeardownDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, `
		TRUNCATE TABLE orders, products RESTART IDENTITY CASCADE;
	`)
	require.NoError(t, err)
}
