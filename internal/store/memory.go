package store

import (
	"context"
	"fmt"
	"sync"

	"crashcourse/internal/game"
)

// MemoryStore keeps results for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []game.RunResult
	ids  map[string]struct{}
}

var _ ResultStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string]struct{})}
}

func (s *MemoryStore) Record(ctx context.Context, res game.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[res.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, res.ID)
	}
	s.ids[res.ID] = struct{}{}
	s.runs = append(s.runs, res)
	return nil
}

func (s *MemoryStore) Top(ctx context.Context, limit int) ([]game.ScoreRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rank(s.runs, limit), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
