package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"shop/internal/pkg/config"
	"shop/internal/pkg/dotenv"
	"shop/internal/pkg/migrate"
	"shop/internal/pkg/postgres"
	"shop/pkg/logger"
	"shop/pkg/logger/zap_adapter"
)

const usage = `usage: migrator [flags] <command> [version]

commands:
  up          apply all pending migrations
  up-by-one   apply the next migration
  up-to N     apply migrations up to version N
  down        roll back the last migration
  down-to N   roll back to version N
  redo        roll back and reapply the last migration
  status      print migration status
  version     print the current version
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"), logger.NewField("process", "shop-migrator"))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	if err := run(zapLogger, flag.Arg(0), flag.Args()[1:]); err != nil {
		zapLogger.Error("migration failed", logger.ErrorField(err))
		os.Exit(1)
	}
}

func run(log logger.Logger, command string, args []string) error {
	if _, err := dotenv.Load(".env.local", ".env"); err != nil {
		return fmt.Errorf("env files: %w", err)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := postgres.NewConnPool(ctx, log, dbCfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	db := migrate.OpenFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database handle", logger.ErrorField(err))
		}
	}()

	runLog := log.With(logger.NewField("command", command))
	runLog.Info("running migrations")

	if err := migrate.Run(ctx, db, command, args...); err != nil {
		return err
	}

	runLog.Info("migrations done")
	return nil
}
