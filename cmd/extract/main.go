package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CATT-CODE/mlb-pipeline/external/statsapi"
	"github.com/CATT-CODE/mlb-pipeline/internal/config"
	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/resilience"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <start-date> <end-date>  (dates in YYYY-MM-DD)\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}
	startDate, endDate := os.Args[1], os.Args[2]
	if err := validateDateRange(startDate, endDate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

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

	client := statsapi.NewClient(statsapi.ClientConfig{
		BaseURL:    cfg.StatsAPIBaseURL,
		Timeout:    cfg.StatsAPITimeout,
		MaxRetries: cfg.StatsAPIMaxRetries,
		Season:     cfg.StatsAPISeason,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsAPICircuitEnabled,
			FailureThreshold: cfg.StatsAPICircuitFailureCount,
			OpenTimeout:      cfg.StatsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsAPICircuitHalfOpenMaxReq,
		},
	})

	doc, err := client.BuildSnapshotDocument(ctx, startDate, endDate, cfg.StatsAPIWorkers)
	if err != nil {
		logger.Error("build snapshot", "start", startDate, "end", endDate, "error", err)
		os.Exit(1)
	}

	data, err := snapshot.Encode(doc)
	if err != nil {
		logger.Error("encode snapshot", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.IntakeDir, 0o755); err != nil {
		logger.Error("create intake dir", "dir", cfg.IntakeDir, "error", err)
		os.Exit(1)
	}

	token := statsapi.SnapshotFileName(startDate, endDate, time.Now())
	path := filepath.Join(cfg.IntakeDir, token)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("write snapshot", "path", path, "error", err)
		os.Exit(1)
	}

	logger.Info("snapshot written",
		"path", path,
		"teams", len(doc.Teams),
		"games", len(doc.Games),
		"batter_lines", len(doc.BatterStats),
		"pitcher_lines", len(doc.PitcherStats),
	)
}

func validateDateRange(startDate, endDate string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: use YYYY-MM-DD", endDate)
	}
	if start.After(end) {
		return fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}
	return nil
}
