package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/chancery-dms/chancery/internal/app"
	"github.com/chancery-dms/chancery/internal/auth"
	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/documents"
	"github.com/chancery-dms/chancery/internal/platform/cache"
	"github.com/chancery-dms/chancery/internal/platform/db"
	"github.com/chancery-dms/chancery/internal/retention"
	"github.com/chancery-dms/chancery/jobs"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	authzService := authz.NewService(authz.NewPGStore(pool))
	assembler := auth.NewPrincipalAssembler(auth.NewRepository(pool), authzService, redisClient, cfg.PrincipalCacheTTL)

	documentsRepo := documents.NewRepository(pool)
	retentionService := retention.NewService(retention.NewRepository(pool), documentsRepo, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAuthzRefresh, Handler: jobs.NewAuthzRefreshHandler(assembler, logger)},
			{Type: jobs.TaskRetentionScan, Handler: jobs.NewRetentionScanHandler(retentionService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 2 * * *", Task: jobs.NewRetentionScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
