package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "boostx/internal/adapter/http"
	"boostx/internal/adapter/postgres"
	"boostx/internal/adapter/tiktok"
	"boostx/internal/adapter/usecase"
	"boostx/internal/config"
	"boostx/internal/core/domain"
	"boostx/internal/db"
	"boostx/internal/scheduler"
)

// main is the entry point. It loads configuration, optionally runs
// database migrations, wires the repositories, the platform client and
// the usecases, then starts the job scheduler and the operational HTTP
// server. On receiving a termination signal it gracefully shuts both
// down.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.SeedDemo {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
		}
	}

	targets, err := domain.LoadTargetTable(cfg.Optimizer.TargetsPath)
	if err != nil {
		logger.Error("score target table error", slog.Any("error", err))
		os.Exit(1)
	}
	scoreParams := domain.DefaultScoreParams()
	scoreParams.Targets = targets

	accounts := postgres.NewAccountRepository(pool)
	campaigns := postgres.NewCampaignRepository(pool)
	contents := postgres.NewContentRepository(pool)
	cursors := postgres.NewCursorRepository(pool)
	budgets := postgres.NewBudgetRepository(pool)
	runs := postgres.NewRunRepository(pool)

	platform := tiktok.New(cfg.Platform, logger)

	syncUC := usecase.NewSyncUseCase(platform, accounts, campaigns, contents, cursors, runs, cfg.Sync, logger)
	scoreUC := usecase.NewScoreUseCase(contents, campaigns, runs, scoreParams, cfg.Optimizer.ScoreBatch, logger)
	optimizeUC := usecase.NewOptimizeUseCase(budgets, contents, campaigns, runs, cfg.Optimizer, logger)
	housekeeping := usecase.NewHousekeepingUseCase(runs, cfg.Sync.StaleRunAge, logger)

	jobs := scheduler.New(logger)
	jobs.AddInterval("ads_sync", cfg.Sync.AdsInterval, func(ctx context.Context) error {
		_, err := syncUC.SyncAds(ctx)
		return err
	})
	jobs.AddInterval("spend_sync", cfg.Sync.SpendInterval, func(ctx context.Context) error {
		_, err := syncUC.SyncSpend(ctx)
		return err
	})
	jobs.AddInterval("score_recalc", cfg.Optimizer.ScoreInterval, func(ctx context.Context) error {
		_, err := scoreUC.RecalculateScores(ctx)
		return err
	})
	jobs.AddInterval("budget_optimize", cfg.Optimizer.RunInterval, func(ctx context.Context) error {
		_, err := optimizeUC.RunOptimization(ctx)
		return err
	})
	jobs.AddDaily("daily_budget", 0, 5, func(ctx context.Context) error {
		_, err := optimizeUC.RollForwardDailyBudgets(ctx)
		return err
	})
	jobs.AddInterval("housekeeping", cfg.Sync.HousekeepingInterval, func(ctx context.Context) error {
		_, err := housekeeping.FailStaleRuns(ctx)
		return err
	})

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		jobs.Run(ctx)
	}()

	handler := httpadapter.NewHandler(syncUC, scoreUC, optimizeUC, runs, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}

	select {
	case <-schedulerDone:
		logger.Info("scheduler stopped")
	case <-shutdownCtx.Done():
		logger.Warn("scheduler shutdown timed out")
	}
}
