// Package app assembles the pipeline from configuration: database handle,
// intake store, repositories and the usecase service.
package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/CATT-CODE/mlb-pipeline/internal/config"
	"github.com/CATT-CODE/mlb-pipeline/internal/infrastructure/intake"
	"github.com/CATT-CODE/mlb-pipeline/internal/infrastructure/repository/postgres"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
	"github.com/CATT-CODE/mlb-pipeline/internal/usecase"
)

// OpenDB connects to Postgres with tracing instrumentation attached.
// The caller owns the handle and must Close it.
func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(dbURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dbURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// NewPipeline wires the intake directory and Postgres-backed repositories
// into a ready PipelineService.
func NewPipeline(cfg config.Config, db *sqlx.DB, logger *logging.Logger) (*usecase.PipelineService, error) {
	intakeStore, err := intake.NewFilesystemStore(cfg.IntakeDir, cfg.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("open intake store: %w", err)
	}

	svc := usecase.NewPipelineService(
		intakeStore,
		postgres.NewRefDataStore(db),
		postgres.NewStatLineRepository(db),
		postgres.NewLedgerRepository(db),
		logger,
	)
	return svc, nil
}
