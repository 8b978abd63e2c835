package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/statline"
	qb "github.com/CATT-CODE/mlb-pipeline/internal/platform/querybuilder"
)

var batterColumns = []string{
	"game_id", "player_id", "at_bats", "runs", "hits", "doubles", "triples",
	"home_runs", "rbi", "walks", "hit_by_pitch", "strikeouts",
	"stolen_bases", "caught_stealing", "avg", "obp", "slg", "ops",
}

var pitcherColumns = []string{
	"game_id", "player_id", "innings_pitched", "hits_allowed", "runs_allowed",
	"earned_runs", "home_runs_allowed", "walks_allowed", "strikeouts",
}

// The conflict target makes crash-retry re-runs idempotent at the row level:
// a (game, player) line already present is silently left alone.
const statConflictClause = "ON CONFLICT (game_id, player_id) DO NOTHING"

// StatLineRepository bulk-inserts stat lines. Each call is one multi-row
// INSERT in one transaction: all rows land or none do.
type StatLineRepository struct {
	db *sqlx.DB
}

func NewStatLineRepository(db *sqlx.DB) *StatLineRepository {
	return &StatLineRepository{db: db}
}

func (r *StatLineRepository) InsertBatterLines(ctx context.Context, rows []statline.BatterLine) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	builder := qb.InsertInto("batter_stats").Columns(batterColumns...)
	for _, row := range rows {
		builder.Values(
			row.GameID, row.PlayerID, row.AtBats, row.Runs, row.Hits,
			row.Doubles, row.Triples, row.HomeRuns, row.RBI, row.Walks,
			row.HitByPitch, row.Strikeouts, row.StolenBases, row.CaughtStealing,
			row.Rates.AVG, row.Rates.OBP, row.Rates.SLG, row.Rates.OPS,
		)
	}

	return r.bulkInsert(ctx, "batter_stats", builder)
}

func (r *StatLineRepository) InsertPitcherLines(ctx context.Context, rows []statline.PitcherLine) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	builder := qb.InsertInto("pitcher_stats").Columns(pitcherColumns...)
	for _, row := range rows {
		builder.Values(
			row.GameID, row.PlayerID, row.InningsPitched, row.HitsAllowed,
			row.RunsAllowed, row.EarnedRuns, row.HomeRunsAllowed,
			row.WalksAllowed, row.Strikeouts,
		)
	}

	return r.bulkInsert(ctx, "pitcher_stats", builder)
}

func (r *StatLineRepository) bulkInsert(ctx context.Context, table string, builder *qb.InsertBuilder) (int, error) {
	query, args, err := builder.Suffix(statConflictClause).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build bulk insert query for %s: %w", table, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx bulk insert %s: %w", table, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk insert into %s: %w", table, err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count inserted rows for %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk insert %s tx: %w", table, err)
	}

	return int(inserted), nil
}
