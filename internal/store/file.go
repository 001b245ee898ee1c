package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"crashcourse/internal/game"
)

// FileStore keeps results as a JSON array on disk. The whole file is
// rewritten on every Record.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

var _ ResultStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Record(ctx context.Context, res game.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.load()
	if err != nil {
		return err
	}
	for _, r := range runs {
		if r.ID == res.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateRun, res.ID)
		}
	}
	runs = append(runs, res)

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func (s *FileStore) Top(ctx context.Context, limit int) ([]game.ScoreRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs, err := s.load()
	if err != nil {
		return nil, err
	}
	return rank(runs, limit), nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() ([]game.RunResult, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var runs []game.RunResult
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("decode results %s: %w", s.path, err)
	}
	return runs, nil
}
