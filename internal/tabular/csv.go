package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
)

// CSVStore persists each table as <dir>/<table>.csv and rewrites the whole
// file on every OverwriteAll. Writes go through a temp file followed by a
// rename so a crash mid-write never leaves a half-written table behind.
type CSVStore struct {
	dir string
	mu  sync.RWMutex
}

// NewCSVStore creates the base directory if needed and returns the store.
func NewCSVStore(dir string) (*CSVStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", apperrors.ErrPermanentStore, err)
	}
	return &CSVStore{dir: dir}, nil
}

// ReadAll loads every row of the table. A table whose file does not exist yet
// reads as empty.
func (s *CSVStore) ReadAll(_ context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.pathFor(table))
	if os.IsNotExist(err) {
		return [][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrTransientStore, table, err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperrors.ErrPermanentStore, table, err)
	}
	return rows, nil
}

// OverwriteAll atomically replaces the table file with rows.
func (s *CSVStore) OverwriteAll(_ context.Context, table string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperrors.ErrPermanentStore, table, err)
	}

	path := s.pathFor(table)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", apperrors.ErrTransientStore, table, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", apperrors.ErrTransientStore, table, err)
	}
	return nil
}

func (s *CSVStore) pathFor(table string) string {
	return filepath.Join(s.dir, table+".csv")
}
