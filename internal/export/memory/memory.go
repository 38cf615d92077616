package memory

import (
	"context"
	"sync"

	"cantiere/internal/core"
)

// Store keeps the last exported snapshot in memory. Used in tests and when
// running without a configured spreadsheet.
type Store struct {
	mu     sync.Mutex
	last   []core.Record
	writes int
}

func New() *Store {
	return &Store{}
}

// WriteSnapshot replaces the stored snapshot with a copy of the records.
func (s *Store) WriteSnapshot(_ context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = append([]core.Record(nil), records...)
	s.writes++
	return nil
}

// Snapshot returns a copy of the last written snapshot.
func (s *Store) Snapshot() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.last...)
}

// Writes returns how many snapshots have been written.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
