package dataset

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Store holds the current dataset snapshot. Readers always see a complete
// snapshot; Reload swaps in a new one only when it parsed successfully.
type Store struct {
	path    string
	current atomic.Pointer[Dataset]
	mu      sync.Mutex // serializes reloads
	logger  *zap.Logger
}

// NewStore loads path and returns a store serving it
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger.Named("dataset")}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore serves an in-memory dataset. Reload re-serves it unchanged.
func NewStaticStore(ds *Dataset) *Store {
	s := &Store{logger: zap.NewNop()}
	s.current.Store(ds)
	return s
}

// Current returns the active snapshot
func (s *Store) Current() *Dataset {
	return s.current.Load()
}

// Reload re-reads the dataset file. On failure the previous snapshot stays active.
func (s *Store) Reload() (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return s.Current(), nil
	}

	ds, err := Load(s.path)
	if err != nil {
		s.logger.Warn("dataset reload failed, keeping previous snapshot",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, fmt.Errorf("failed to reload dataset: %w", err)
	}

	s.current.Store(ds)
	lo, hi := ds.YearBounds()
	s.logger.Info("dataset loaded",
		zap.String("path", s.path),
		zap.Int("events", ds.Len()),
		zap.Int("min_year", lo),
		zap.Int("max_year", hi))
	return ds, nil
}
