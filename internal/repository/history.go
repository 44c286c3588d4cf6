package repository

import (
	"context"
	"fmt"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

var historyHeader = []string{"date", "totalAsset", "totalPnL", "totalLookThrough"}

// HistoryRepository provides data access for the daily net-worth history.
type HistoryRepository struct {
	store tabular.Store
}

// NewHistoryRepository creates a new HistoryRepository on the given store.
func NewHistoryRepository(store tabular.Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// GetAll returns every history point in append order.
func (r *HistoryRepository) GetAll(ctx context.Context) ([]model.NetWorthPoint, error) {
	rows, err := r.store.ReadAll(ctx, tabular.TableHistory)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if err := checkHeader(rows, historyHeader); err != nil {
		return nil, err
	}

	points := []model.NetWorthPoint{}
	for _, row := range dataRows(rows) {
		if len(row) < len(historyHeader) {
			continue
		}
		date, err := parseDate(row[0], "date")
		if err != nil {
			return nil, err
		}
		asset, err := parseDecimal(row[1], "totalAsset")
		if err != nil {
			return nil, err
		}
		pnl, err := parseDecimal(row[2], "totalPnL")
		if err != nil {
			return nil, err
		}
		lookThrough, err := parseDecimal(row[3], "totalLookThrough")
		if err != nil {
			return nil, err
		}
		points = append(points, model.NetWorthPoint{
			Date:             date,
			TotalAsset:       asset,
			TotalPnL:         pnl,
			TotalLookThrough: lookThrough,
		})
	}
	return points, nil
}

// Append adds one point to the end of the history table.
func (r *HistoryRepository) Append(ctx context.Context, point model.NetWorthPoint) error {
	rows, err := r.store.ReadAll(ctx, tabular.TableHistory)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if err := checkHeader(rows, historyHeader); err != nil {
		return err
	}
	if len(rows) == 0 {
		rows = [][]string{historyHeader}
	}

	rows = append(rows, []string{
		point.Date.Format(dateLayout),
		point.TotalAsset.String(),
		point.TotalPnL.String(),
		point.TotalLookThrough.String(),
	})
	if err := r.store.OverwriteAll(ctx, tabular.TableHistory, rows); err != nil {
		return fmt.Errorf("append history point: %w", err)
	}
	return nil
}
