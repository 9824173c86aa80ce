package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/journals"
	"github.com/satwa-erp/satwa-erp/internal/accounting/reports"
	"github.com/satwa-erp/satwa-erp/internal/ap"
	"github.com/satwa-erp/satwa-erp/internal/app"
	"github.com/satwa-erp/satwa-erp/internal/ar"
	"github.com/satwa-erp/satwa-erp/internal/banking"
	"github.com/satwa-erp/satwa-erp/internal/dashboard"
	"github.com/satwa-erp/satwa-erp/internal/observability"
	"github.com/satwa-erp/satwa-erp/internal/platform/cache"
	"github.com/satwa-erp/satwa-erp/internal/platform/db"
	"github.com/satwa-erp/satwa-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	accountService := accounts.NewService(accounts.NewRepository(pool))
	accountsHandler := accounts.NewHandler(logger, accountService)

	journalService := journals.NewService(journals.NewRepository(pool))
	journalsHandler := journals.NewHandler(logger, journalService)

	reportService := reports.NewService(reports.NewRepository(pool), logger)
	reportsHandler := reports.NewHandler(logger, reportService)

	bankingService := banking.NewService(
		banking.NewRepository(pool),
		journalService,
		accountService,
		banking.DefaultRouting(),
		logger,
	)
	bankingHandler := banking.NewHandler(logger, bankingService)

	arHandler := ar.NewHandler(logger, ar.NewService(ar.NewRepository(pool)))
	apHandler := ap.NewHandler(logger, ap.NewService(ap.NewRepository(pool)))

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	metrics := observability.NewMetrics()
	journalService.WithMetrics(metrics)
	journalService.OnLedgerChange(func(ctx context.Context) {
		if err := dashboardService.InvalidateCache(ctx); err != nil {
			logger.Warn("dashboard cache invalidate", slog.Any("error", err))
		}
	})

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AccountsHandler:  accountsHandler,
		JournalsHandler:  journalsHandler,
		ReportsHandler:   reportsHandler,
		BankingHandler:   bankingHandler,
		ARHandler:        arHandler,
		APHandler:        apHandler,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
