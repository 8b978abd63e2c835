package statline

import "context"

// Repository persists stat lines in bulk. Each call is all-or-nothing for
// the rows it receives; the returned count is observability only.
type Repository interface {
	InsertBatterLines(ctx context.Context, rows []BatterLine) (int, error)
	InsertPitcherLines(ctx context.Context, rows []PitcherLine) (int, error)
}
