package repository

import (
	"context"
	"fmt"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

var snapshotHeader = []string{"taggedDate", "code", "name", "price", "per", "pbr", "roePct"}

// SnapshotRepository provides data access for the quarterly snapshot table.
type SnapshotRepository struct {
	store tabular.Store
}

// NewSnapshotRepository creates a new SnapshotRepository on the given store.
func NewSnapshotRepository(store tabular.Store) *SnapshotRepository {
	return &SnapshotRepository{store: store}
}

// GetAll returns every snapshot row in append order.
func (r *SnapshotRepository) GetAll(ctx context.Context) ([]model.QuarterlySnapshotRow, error) {
	rows, err := r.store.ReadAll(ctx, tabular.TableSnapshots)
	if err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	if err := checkHeader(rows, snapshotHeader); err != nil {
		return nil, err
	}

	snapshots := []model.QuarterlySnapshotRow{}
	for _, row := range dataRows(rows) {
		if len(row) < len(snapshotHeader) {
			continue
		}
		price, err := parseOptionalDecimal(row[3], "price")
		if err != nil {
			return nil, err
		}
		per, err := parseOptionalDecimal(row[4], "per")
		if err != nil {
			return nil, err
		}
		pbr, err := parseOptionalDecimal(row[5], "pbr")
		if err != nil {
			return nil, err
		}
		roe, err := parseOptionalDecimal(row[6], "roePct")
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, model.QuarterlySnapshotRow{
			TaggedDate: row[0],
			Code:       row[1],
			Name:       row[2],
			Price:      price,
			PER:        per,
			PBR:        pbr,
			ROEPct:     roe,
		})
	}
	return snapshots, nil
}

// AppendBatch adds one quarter's rows to the end of the table. The caller is
// responsible for quarter-level dedup; this method only appends.
func (r *SnapshotRepository) AppendBatch(ctx context.Context, batch []model.QuarterlySnapshotRow) error {
	rows, err := r.store.ReadAll(ctx, tabular.TableSnapshots)
	if err != nil {
		return fmt.Errorf("read snapshots: %w", err)
	}
	if err := checkHeader(rows, snapshotHeader); err != nil {
		return err
	}
	if len(rows) == 0 {
		rows = [][]string{snapshotHeader}
	}

	for _, s := range batch {
		rows = append(rows, []string{
			s.TaggedDate,
			s.Code,
			s.Name,
			formatOptionalDecimal(s.Price),
			formatOptionalDecimal(s.PER),
			formatOptionalDecimal(s.PBR),
			formatOptionalDecimal(s.ROEPct),
		})
	}
	if err := r.store.OverwriteAll(ctx, tabular.TableSnapshots, rows); err != nil {
		return fmt.Errorf("append snapshot batch: %w", err)
	}
	return nil
}
