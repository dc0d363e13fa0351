package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
	"github.com/cognicore/robomind/pkg/robomind/runlog"
)

// Store is an in-memory implementation of runlog.Store
type Store struct {
	mu   sync.RWMutex
	runs map[string]runlog.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]runlog.Run)}
}

// Close implements runlog.Store.
func (s *Store) Close() error { return nil }

// Record inserts or replaces a run, keyed by ID.
func (s *Store) Record(ctx context.Context, r runlog.Run) error {
	if r.ID == "" {
		return fmt.Errorf("record run: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

// Get returns a run by ID.
func (s *Store) Get(ctx context.Context, id string) (runlog.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return runlog.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

// List returns runs newest first, optionally filtered by map.
func (s *Store) List(ctx context.Context, mapName string, limit int) ([]runlog.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = runlog.DefaultListLimit
	}

	var out []runlog.Run
	for _, r := range s.runs {
		if mapName == "" || r.Map == mapName {
			out = append(out, r)
		}
	}
	// ULIDs sort by creation time
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
