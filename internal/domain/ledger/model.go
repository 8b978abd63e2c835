// Package ledger tracks which date ranges have been fully ingested. A unit
// whose declared range touches any recorded range is rejected wholesale;
// dedup is deliberately coarse grained at the range level.
package ledger

import "time"

const DateLayout = "2006-01-02"

// Range is an inclusive date range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two inclusive ranges share at least one day:
// s1 <= e2 AND s2 <= e1.
func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

func (r Range) StartDate() string { return r.Start.Format(DateLayout) }
func (r Range) EndDate() string   { return r.End.Format(DateLayout) }

// ProcessedRange records one successfully completed ingestion unit.
type ProcessedRange struct {
	SourceToken string
	Range       Range
	ProcessedAt time.Time
}
