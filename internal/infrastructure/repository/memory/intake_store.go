package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
)

// IntakeStore holds snapshot documents keyed by source token. Archiving
// moves a token out of the pending set, like the filesystem store moving
// a file between directories.
type IntakeStore struct {
	mu sync.Mutex

	// ReadErr, when set, fails every Read. Test hook.
	ReadErr error

	pending  map[string]snapshot.Document
	archived map[string]snapshot.Document
}

func NewIntakeStore() *IntakeStore {
	return &IntakeStore{
		pending:  make(map[string]snapshot.Document),
		archived: make(map[string]snapshot.Document),
	}
}

func (s *IntakeStore) Add(token string, doc snapshot.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[token] = doc
}

func (s *IntakeStore) ListPending(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := make([]string, 0, len(s.pending))
	for token := range s.pending {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens, nil
}

func (s *IntakeStore) Read(_ context.Context, token string) (snapshot.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return snapshot.Document{}, s.ReadErr
	}
	doc, ok := s.pending[token]
	if !ok {
		return snapshot.Document{}, fmt.Errorf("snapshot %s not pending", token)
	}
	return doc, nil
}

func (s *IntakeStore) Archive(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.pending[token]
	if !ok {
		return fmt.Errorf("snapshot %s not pending", token)
	}
	delete(s.pending, token)
	s.archived[token] = doc
	return nil
}

func (s *IntakeStore) IsPending(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[token]
	return ok
}

func (s *IntakeStore) IsArchived(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.archived[token]
	return ok
}
