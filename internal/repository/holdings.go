package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

var holdingsHeader = []string{"code", "name", "avgCost", "shares"}

// HoldingsRepository provides data access for the Holdings table.
type HoldingsRepository struct {
	store tabular.Store
}

// NewHoldingsRepository creates a new HoldingsRepository on the given store.
func NewHoldingsRepository(store tabular.Store) *HoldingsRepository {
	return &HoldingsRepository{store: store}
}

// GetAll returns every holding. An unwritten table reads as no holdings.
func (r *HoldingsRepository) GetAll(ctx context.Context) ([]model.Holding, error) {
	rows, err := r.store.ReadAll(ctx, tabular.TableHoldings)
	if err != nil {
		return nil, fmt.Errorf("read holdings: %w", err)
	}
	if err := checkHeader(rows, holdingsHeader); err != nil {
		return nil, err
	}

	holdings := []model.Holding{}
	for _, row := range dataRows(rows) {
		if len(row) < len(holdingsHeader) {
			continue
		}
		avgCost, err := parseDecimal(row[2], "avgCost")
		if err != nil {
			return nil, err
		}
		shares, err := parseInt(row[3], "shares")
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, model.Holding{
			Code:    row[0],
			Name:    row[1],
			AvgCost: avgCost,
			Shares:  shares,
		})
	}
	return holdings, nil
}

// ReplaceAll overwrites the Holdings table. Rows are written sorted by code so
// repeated writes of the same positions produce identical tables. Average
// cost is rounded to the instrument's price granularity (whole yen) here and
// only here; intermediate ledger math keeps full precision so repeated
// partial buys do not compound rounding error.
func (r *HoldingsRepository) ReplaceAll(ctx context.Context, holdings []model.Holding) error {
	sorted := append([]model.Holding(nil), holdings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	rows := make([][]string, 0, len(sorted)+1)
	rows = append(rows, holdingsHeader)
	for _, h := range sorted {
		rows = append(rows, []string{
			h.Code,
			h.Name,
			h.AvgCost.Round(0).String(),
			strconv.FormatInt(h.Shares, 10),
		})
	}
	if err := r.store.OverwriteAll(ctx, tabular.TableHoldings, rows); err != nil {
		return fmt.Errorf("write holdings: %w", err)
	}
	return nil
}
