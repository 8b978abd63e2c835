package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/refdata"
	qb "github.com/CATT-CODE/mlb-pipeline/internal/platform/querybuilder"
)

// RefDataStore resolves reference entities with single-statement upserts:
// INSERT ... ON CONFLICT ... RETURNING id. There is no window between insert
// and lookup, so repeated or interleaved calls for one external id can never
// produce two rows.
type RefDataStore struct {
	db *sqlx.DB
}

func NewRefDataStore(db *sqlx.DB) *RefDataStore {
	return &RefDataStore{db: db}
}

func (s *RefDataStore) Begin(ctx context.Context) (refdata.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reference tx: %w", err)
	}
	return &refDataTx{tx: tx}, nil
}

type refDataTx struct {
	tx *sqlx.Tx
}

// The DO UPDATE clause rewrites the conflict key to itself so the statement
// always returns the row's id without touching any other column. First-seen
// attribute values (including a player's team) are therefore sticky.
const upsertReturningID = `ON CONFLICT (external_id) DO UPDATE SET external_id = EXCLUDED.external_id RETURNING id`

func (t *refDataTx) ResolveTeam(ctx context.Context, item refdata.Team) (int64, error) {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Venue:      item.Venue,
		City:       item.City,
	}, upsertReturningID)
	if err != nil {
		return 0, fmt.Errorf("build upsert team query: %w", err)
	}

	var id int64
	if err := t.tx.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("team external_id=%d: %w", item.ExternalID, refdata.ErrIntegrity)
		}
		return 0, fmt.Errorf("upsert team external_id=%d: %w", item.ExternalID, err)
	}
	return id, nil
}

func (t *refDataTx) ResolvePlayer(ctx context.Context, item refdata.Player) (int64, error) {
	query, args, err := qb.InsertModel("players", playerInsertModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		TeamID:     item.TeamID,
		Position:   item.Position,
	}, upsertReturningID)
	if err != nil {
		return 0, fmt.Errorf("build upsert player query: %w", err)
	}

	var id int64
	if err := t.tx.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("player external_id=%d: %w", item.ExternalID, refdata.ErrIntegrity)
		}
		return 0, fmt.Errorf("upsert player external_id=%d: %w", item.ExternalID, err)
	}
	return id, nil
}

func (t *refDataTx) ResolveGame(ctx context.Context, item refdata.Game) (int64, error) {
	query, args, err := qb.InsertModel("games", gameInsertModel{
		ExternalID: item.ExternalID,
		GameDate:   item.Date,
		Venue:      item.Venue,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
	}, upsertReturningID)
	if err != nil {
		return 0, fmt.Errorf("build upsert game query: %w", err)
	}

	var id int64
	if err := t.tx.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("game external_id=%d: %w", item.ExternalID, refdata.ErrIntegrity)
		}
		return 0, fmt.Errorf("upsert game external_id=%d: %w", item.ExternalID, err)
	}
	return id, nil
}

func (t *refDataTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit reference tx: %w", err)
	}
	return nil
}

func (t *refDataTx) Rollback() error {
	return t.tx.Rollback()
}
