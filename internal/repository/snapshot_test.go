package repository_test

import (
	"context"
	"testing"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/tabular"
	"github.com/kabutools/kabu-ledger/internal/testutil"
)

// TestSnapshotRepository_OptionalFields tests that absent metrics stay
// distinguishable from zero through a persistence round-trip.
//
// WHY: a delisted code has no price; writing 0 instead would poison every
// later average computed over the snapshot.
func TestSnapshotRepository_OptionalFields(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	repo := repository.NewSnapshotRepository(store)

	price := testutil.MustDecimal(t, "2500")
	batch := []model.QuarterlySnapshotRow{
		{TaggedDate: "2026-Q1 2026-03-31", Code: "7203.T", Name: "Toyota", Price: &price},
		{TaggedDate: "2026-Q1 2026-03-31", Code: "9984.T", Name: "SoftBank G"},
	}
	if err := repo.AppendBatch(ctx, batch); err != nil {
		t.Fatalf("AppendBatch: %v", err)
	}

	rows, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("snapshot has %d rows, want 2", len(rows))
	}

	if rows[0].Price == nil || !rows[0].Price.Equal(price) {
		t.Errorf("7203.T price = %v, want %s", rows[0].Price, price)
	}
	if rows[1].Price != nil {
		t.Errorf("9984.T price = %v, want nil for absent metric", rows[1].Price)
	}
	if rows[1].PER != nil || rows[1].PBR != nil || rows[1].ROEPct != nil {
		t.Errorf("9984.T metrics = %+v, want all nil", rows[1])
	}

	// The empty cells must actually be empty strings, not "0".
	raw := testutil.ReadTable(t, store, tabular.TableSnapshots)
	if raw[2][3] != "" {
		t.Errorf("raw price cell = %q, want empty", raw[2][3])
	}

	// A second batch lands after the first.
	if err := repo.AppendBatch(ctx, batch[:1]); err != nil {
		t.Fatalf("second AppendBatch: %v", err)
	}
	rows, err = repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("snapshot has %d rows after second batch, want 3", len(rows))
	}
}
