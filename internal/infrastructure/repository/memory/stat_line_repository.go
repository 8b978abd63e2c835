package memory

import (
	"context"
	"sync"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/statline"
)

type statKey struct {
	gameID   int64
	playerID int64
}

// StatLineRepository stores stat lines keyed by (game, player), mirroring
// the database's conflict behavior: a line already present is left alone.
type StatLineRepository struct {
	mu sync.Mutex

	// InsertErr, when set, fails every insert. Test hook.
	InsertErr error

	batters  map[statKey]statline.BatterLine
	pitchers map[statKey]statline.PitcherLine
}

func NewStatLineRepository() *StatLineRepository {
	return &StatLineRepository{
		batters:  make(map[statKey]statline.BatterLine),
		pitchers: make(map[statKey]statline.PitcherLine),
	}
}

func (r *StatLineRepository) InsertBatterLines(_ context.Context, rows []statline.BatterLine) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.InsertErr != nil {
		return 0, r.InsertErr
	}

	inserted := 0
	for _, row := range rows {
		key := statKey{gameID: row.GameID, playerID: row.PlayerID}
		if _, ok := r.batters[key]; ok {
			continue
		}
		r.batters[key] = row
		inserted++
	}
	return inserted, nil
}

func (r *StatLineRepository) InsertPitcherLines(_ context.Context, rows []statline.PitcherLine) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.InsertErr != nil {
		return 0, r.InsertErr
	}

	inserted := 0
	for _, row := range rows {
		key := statKey{gameID: row.GameID, playerID: row.PlayerID}
		if _, ok := r.pitchers[key]; ok {
			continue
		}
		r.pitchers[key] = row
		inserted++
	}
	return inserted, nil
}

func (r *StatLineRepository) BatterCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batters)
}

func (r *StatLineRepository) PitcherCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pitchers)
}

func (r *StatLineRepository) BatterLines() []statline.BatterLine {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]statline.BatterLine, 0, len(r.batters))
	for _, row := range r.batters {
		out = append(out, row)
	}
	return out
}
