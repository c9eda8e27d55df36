package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	"github.com/logiparts/logiparts-admin/internal/app"
	"github.com/logiparts/logiparts-admin/internal/catalog/bulk"
	jobmetrics "github.com/logiparts/logiparts-admin/internal/jobs"
	"github.com/logiparts/logiparts-admin/internal/platform/cache"
	"github.com/logiparts/logiparts-admin/jobs"
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

	apiClient := apiclient.NewClient(cfg.APIURL, cfg.APITimeout, apiclient.WithLogger(logger))
	store := bulk.NewStore(redisClient, 24*time.Hour)
	processor := bulk.NewProcessor(apiClient, store, logger)
	bulkJob := jobs.NewBulkUploadJob(processor, logger, jobmetrics.NewMetrics(nil))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   cache.QueueOpt(redisClient),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBulkUpload, Handler: bulkJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
