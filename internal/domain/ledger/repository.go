package ledger

import "context"

type Repository interface {
	// Overlaps reports whether the candidate range touches any recorded range.
	Overlaps(ctx context.Context, candidate Range) (bool, error)
	// Record appends the commit marker for a fully loaded unit.
	Record(ctx context.Context, item ProcessedRange) error
	// IsRecorded reports whether the exact token was already committed,
	// independent of its range. Used to make the archive move re-run safe.
	IsRecorded(ctx context.Context, sourceToken string) (bool, error)
}
