package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/ledger"
	qb "github.com/CATT-CODE/mlb-pipeline/internal/platform/querybuilder"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Overlaps(ctx context.Context, candidate ledger.Range) (bool, error) {
	query, args, err := qb.Select("1").
		From("processed_ranges").
		Where(qb.Expr("? <= end_date AND ? >= start_date", candidate.StartDate(), candidate.EndDate())).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build overlap query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check range overlap: %w", err)
	}
	return true, nil
}

func (r *LedgerRepository) Record(ctx context.Context, item ledger.ProcessedRange) error {
	query, args, err := qb.InsertModel("processed_ranges", processedRangeInsertModel{
		SourceToken: item.SourceToken,
		StartDate:   item.Range.StartDate(),
		EndDate:     item.Range.EndDate(),
		ProcessedAt: item.ProcessedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build record range query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("source token %s already recorded: %w", item.SourceToken, err)
		}
		return fmt.Errorf("record processed range token=%s: %w", item.SourceToken, err)
	}
	return nil
}

func (r *LedgerRepository) IsRecorded(ctx context.Context, sourceToken string) (bool, error) {
	query, args, err := qb.Select("1").
		From("processed_ranges").
		Where(qb.Eq("source_token", sourceToken)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build token lookup query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check recorded token: %w", err)
	}
	return true, nil
}
