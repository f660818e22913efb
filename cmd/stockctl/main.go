// Command stockctl runs stock maintenance tasks against the manufacturing database
// without starting the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	productapp "github.com/mfgerp/backend/internal/application/product"
	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/mfgerp/backend/internal/infrastructure/export"
	"github.com/mfgerp/backend/internal/infrastructure/logger"
	"github.com/mfgerp/backend/internal/infrastructure/persistence"
	"github.com/mfgerp/backend/internal/infrastructure/scheduler"
	"github.com/mfgerp/backend/internal/infrastructure/storage"

	"go.uber.org/zap"
)

// env is the wiring shared by every subcommand
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *persistence.Database
	stock    *stockapp.Service
	products *productapp.Service
	jobs     *scheduler.Scheduler
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.log.Sync()
}

func setup(ctx context.Context, logLevel string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stderr"})

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	stockService := stockapp.NewService(productRepo, ledgerRepo, persistence.NewGormTransactionScope(db.DB), log)
	productService := productapp.NewService(productRepo, log)

	store, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize export storage: %w", err)
	}
	stockService.SetExport(export.NewExcelLedgerExporter(), store)

	// Jobs are registered for RunNow only; the cron loop is never started here
	jobs := scheduler.New(log, cfg.Scheduler.JobTimeout)
	if err := jobs.Register(cfg.Scheduler.LowStockSchedule, scheduler.NewLowStockJob(productService, nil, nil, log)); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := jobs.Register(cfg.Scheduler.ConsistencySchedule, scheduler.NewConsistencyJob(stockService, nil, log)); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &env{cfg: cfg, log: log, db: db, stock: stockService, products: productService, jobs: jobs}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
