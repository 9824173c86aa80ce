package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/journals"
	"github.com/satwa-erp/satwa-erp/internal/accounting/reports"
	"github.com/satwa-erp/satwa-erp/internal/app"
	"github.com/satwa-erp/satwa-erp/internal/banking"
	"github.com/satwa-erp/satwa-erp/internal/platform/db"
	"github.com/satwa-erp/satwa-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	reportService := reports.NewService(reports.NewRepository(pool), logger)
	journalService := journals.NewService(journals.NewRepository(pool))
	accountService := accounts.NewService(accounts.NewRepository(pool))
	bankingService := banking.NewService(
		banking.NewRepository(pool),
		journalService,
		accountService,
		banking.DefaultRouting(),
		logger,
	)

	integrityJob := jobs.NewGLIntegrityHandler(reportService, logger)
	rebuildJob := jobs.NewBankRebuildHandler(bankingService, logger)

	rebuildTask, err := jobs.NewBankRebuildTask(jobs.BankRebuildPayload{})
	if err != nil {
		logger.Error("build rebuild task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskGLIntegrity, Handler: integrityJob.Handle},
			{Type: jobs.TaskBankRebuild, Handler: rebuildJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: jobs.NewGLIntegrityTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 1 * * *", Task: rebuildTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
