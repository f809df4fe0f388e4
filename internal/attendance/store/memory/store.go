package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/crshop/attendance/internal/attendance/store"
	"github.com/crshop/attendance/internal/attendance/types"
)

var errDuplicateID = errors.New("duplicate id")

// Store is an in-memory append-only attendance log. It is intended for use
// in tests and dev environments. Like the sqlite table, ids are unique.
type Store struct {
	mu      sync.Mutex
	records []types.Record
	ids     map[string]struct{}
}

func New() *Store {
	return &Store{ids: make(map[string]struct{})}
}

func (s *Store) Insert(_ context.Context, rec types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[rec.ID]; ok {
		return store.InsertFailed(rec.ID, errDuplicateID)
	}
	s.ids[rec.ID] = struct{}{}
	s.records = append(s.records, rec)
	return nil
}

func (s *Store) ScanAll(_ context.Context) ([]types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }
