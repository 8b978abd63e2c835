package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/CATT-CODE/mlb-pipeline/internal/app"
	"github.com/CATT-CODE/mlb-pipeline/internal/config"
	"github.com/CATT-CODE/mlb-pipeline/internal/observability"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("shutdown tracing", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("stop profiler", "error", err)
		}
	}()

	db, err := app.OpenDB(cfg)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	pipeline, err := app.NewPipeline(cfg, db, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	result, err := pipeline.RunBatch(ctx)
	if err != nil {
		logger.Error("batch aborted", "error", err)
		os.Exit(1)
	}
	if result.Failed > 0 {
		logger.Warn("batch completed with failures",
			"committed", result.Committed,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
		os.Exit(1)
	}
}
