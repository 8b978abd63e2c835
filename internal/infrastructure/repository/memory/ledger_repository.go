package memory

import (
	"context"
	"sync"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/ledger"
)

type LedgerRepository struct {
	mu     sync.Mutex
	ranges []ledger.ProcessedRange
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) Overlaps(_ context.Context, candidate ledger.Range) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, recorded := range r.ranges {
		if recorded.Range.Overlaps(candidate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LedgerRepository) Record(_ context.Context, item ledger.ProcessedRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ranges = append(r.ranges, item)
	return nil
}

func (r *LedgerRepository) IsRecorded(_ context.Context, sourceToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, recorded := range r.ranges {
		if recorded.SourceToken == sourceToken {
			return true, nil
		}
	}
	return false, nil
}

func (r *LedgerRepository) RecordCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ranges)
}
