package refdata

import "context"

// Store opens one transactional resolution session per ingestion unit.
// Either every row resolved through the session becomes durable on Commit,
// or none do.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx resolves external ids to internal surrogate ids with insert-if-absent
// semantics: the first call for an external id creates the row, later calls
// return the existing id and change nothing.
type Tx interface {
	ResolveTeam(ctx context.Context, item Team) (int64, error)
	ResolvePlayer(ctx context.Context, item Player) (int64, error)
	ResolveGame(ctx context.Context, item Game) (int64, error)
	Commit() error
	Rollback() error
}
