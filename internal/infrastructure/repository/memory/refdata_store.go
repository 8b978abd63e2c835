package memory

import (
	"context"
	"sync"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/refdata"
)

// RefDataStore is an in-memory refdata.Store with real transaction
// semantics: resolutions stage in the tx and only land on Commit.
type RefDataStore struct {
	mu     sync.Mutex
	nextID int64

	// ResolveErr, when set, fails every resolution. Test hook.
	ResolveErr error

	teams   map[int64]storedTeam
	players map[int64]storedPlayer
	games   map[int64]storedGame
}

type storedTeam struct {
	id   int64
	item refdata.Team
}

type storedPlayer struct {
	id   int64
	item refdata.Player
}

type storedGame struct {
	id   int64
	item refdata.Game
}

func NewRefDataStore() *RefDataStore {
	return &RefDataStore{
		nextID:  1,
		teams:   make(map[int64]storedTeam),
		players: make(map[int64]storedPlayer),
		games:   make(map[int64]storedGame),
	}
}

func (s *RefDataStore) Begin(_ context.Context) (refdata.Tx, error) {
	return &refDataTx{
		store:   s,
		teams:   make(map[int64]storedTeam),
		players: make(map[int64]storedPlayer),
		games:   make(map[int64]storedGame),
	}, nil
}

func (s *RefDataStore) TeamCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.teams)
}

func (s *RefDataStore) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

func (s *RefDataStore) GameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

func (s *RefDataStore) Player(externalID int64) (refdata.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.players[externalID]
	return stored.item, ok
}

type refDataTx struct {
	store *RefDataStore
	done  bool

	teams   map[int64]storedTeam
	players map[int64]storedPlayer
	games   map[int64]storedGame
}

func (t *refDataTx) ResolveTeam(_ context.Context, item refdata.Team) (int64, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.store.ResolveErr != nil {
		return 0, t.store.ResolveErr
	}

	if stored, ok := t.store.teams[item.ExternalID]; ok {
		return stored.id, nil
	}
	if stored, ok := t.teams[item.ExternalID]; ok {
		return stored.id, nil
	}

	id := t.store.nextID
	t.store.nextID++
	t.teams[item.ExternalID] = storedTeam{id: id, item: item}
	return id, nil
}

func (t *refDataTx) ResolvePlayer(_ context.Context, item refdata.Player) (int64, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.store.ResolveErr != nil {
		return 0, t.store.ResolveErr
	}

	if stored, ok := t.store.players[item.ExternalID]; ok {
		return stored.id, nil
	}
	if stored, ok := t.players[item.ExternalID]; ok {
		return stored.id, nil
	}

	id := t.store.nextID
	t.store.nextID++
	t.players[item.ExternalID] = storedPlayer{id: id, item: item}
	return id, nil
}

func (t *refDataTx) ResolveGame(_ context.Context, item refdata.Game) (int64, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.store.ResolveErr != nil {
		return 0, t.store.ResolveErr
	}

	if stored, ok := t.store.games[item.ExternalID]; ok {
		return stored.id, nil
	}
	if stored, ok := t.games[item.ExternalID]; ok {
		return stored.id, nil
	}

	id := t.store.nextID
	t.store.nextID++
	t.games[item.ExternalID] = storedGame{id: id, item: item}
	return id, nil
}

func (t *refDataTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for externalID, stored := range t.teams {
		t.store.teams[externalID] = stored
	}
	for externalID, stored := range t.players {
		t.store.players[externalID] = stored
	}
	for externalID, stored := range t.games {
		t.store.games[externalID] = stored
	}
	return nil
}

func (t *refDataTx) Rollback() error {
	t.done = true
	return nil
}
