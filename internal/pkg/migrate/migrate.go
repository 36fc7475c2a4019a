package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"shop/migrations"
)

const dialect = "postgres"

var (
	setupOnce sync.Once
	setupErr  error
)

// setup goose держит FS и диалект в глобальном состоянии, выставляем их один раз.
func setup() error {
	setupOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		if err := goose.SetDialect(dialect); err != nil {
			setupErr = fmt.Errorf("goose dialect: %w", err)
		}
	})
	return setupErr
}

// OpenFromPool database/sql поверх уже открытого пула, goose работает только с *sql.DB.
func OpenFromPool(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

// Run выполняет команду goose над встроенными миграциями:
// up, up-by-one, up-to N, down, down-to N, redo, status, version.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if err := setup(); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, ".")
	case "up-by-one":
		return goose.UpByOneContext(ctx, db, ".")
	case "up-to":
		version, err := versionArg(command, args)
		if err != nil {
			return err
		}
		return goose.UpToContext(ctx, db, ".", version)
	case "down":
		return goose.DownContext(ctx, db, ".")
	case "down-to":
		version, err := versionArg(command, args)
		if err != nil {
			return err
		}
		return goose.DownToContext(ctx, db, ".", version)
	case "redo":
		return goose.RedoContext(ctx, db, ".")
	case "status":
		return goose.StatusContext(ctx, db, ".")
	case "version":
		return goose.VersionContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

func Up(ctx context.Context, db *sql.DB) error {
	return Run(ctx, db, "up")
}

func versionArg(command string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s: version argument is required", command)
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid version %q: %w", command, args[0], err)
	}
	return version, nil
}
