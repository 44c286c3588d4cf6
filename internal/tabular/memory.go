package tabular

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and ephemeral runs. It also
// supports write-failure injection so retry behaviour can be exercised
// without a flaky backend.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][][]string

	failNext   int
	failErr    error
	failTables map[string]error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

// ReadAll returns a copy of the table's rows; an unknown table reads as empty.
func (s *MemoryStore) ReadAll(_ context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.tables[table]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// OverwriteAll replaces the table contents, or returns the injected error if
// one is pending.
func (s *MemoryStore) OverwriteAll(_ context.Context, table string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failTables[table]; ok {
		return err
	}
	if s.failNext > 0 {
		s.failNext--
		return s.failErr
	}

	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	s.tables[table] = copied
	return nil
}

// FailNextWrites makes the next n OverwriteAll calls return err.
func (s *MemoryStore) FailNextWrites(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
	s.failErr = err
}

// FailTable makes every write to one table return err until cleared with a
// nil err.
func (s *MemoryStore) FailTable(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTables == nil {
		s.failTables = make(map[string]error)
	}
	if err == nil {
		delete(s.failTables, table)
		return
	}
	s.failTables[table] = err
}
