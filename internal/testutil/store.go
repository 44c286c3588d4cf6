// Package testutil provides shared helpers for tests: an in-memory tabular
// store, pre-wired services and fake collaborators.
package testutil

import (
	"context"
	"testing"

	"github.com/kabutools/kabu-ledger/internal/tabular"
)

// SetupTestStore creates an in-memory tabular store for testing.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    store := testutil.SetupTestStore(t)
//	    // store is empty; every table reads as zero rows
//	}
func SetupTestStore(t *testing.T) *tabular.MemoryStore {
	t.Helper()
	return tabular.NewMemoryStore()
}

// SeedTable writes a full table, header included, into the store.
func SeedTable(t *testing.T, store tabular.Store, table string, rows [][]string) {
	t.Helper()
	if err := store.OverwriteAll(context.Background(), table, rows); err != nil {
		t.Fatalf("Failed to seed table %s: %v", table, err)
	}
}

// ReadTable reads a full table, failing the test on error.
func ReadTable(t *testing.T, store tabular.Store, table string) [][]string {
	t.Helper()
	rows, err := store.ReadAll(context.Background(), table)
	if err != nil {
		t.Fatalf("Failed to read table %s: %v", table, err)
	}
	return rows
}
