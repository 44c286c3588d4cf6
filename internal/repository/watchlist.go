package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

var watchlistHeader = []string{"code", "name", "price", "per", "pbr", "roe", "dividend", "shikiho", "tags", "memo", "targetPrice"}

// WatchlistRepository provides data access for the watchlist table.
type WatchlistRepository struct {
	store tabular.Store
}

// NewWatchlistRepository creates a new WatchlistRepository on the given store.
func NewWatchlistRepository(store tabular.Store) *WatchlistRepository {
	return &WatchlistRepository{store: store}
}

// GetAll returns every watchlist entry in table order.
func (r *WatchlistRepository) GetAll(ctx context.Context) ([]model.WatchlistEntry, error) {
	rows, err := r.store.ReadAll(ctx, tabular.TableWatchlist)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	if err := checkHeader(rows, watchlistHeader); err != nil {
		return nil, err
	}

	entries := []model.WatchlistEntry{}
	for _, row := range dataRows(rows) {
		if len(row) < len(watchlistHeader) {
			continue
		}
		price, err := parseOptionalDecimal(row[2], "price")
		if err != nil {
			return nil, err
		}
		per, err := parseOptionalDecimal(row[3], "per")
		if err != nil {
			return nil, err
		}
		pbr, err := parseOptionalDecimal(row[4], "pbr")
		if err != nil {
			return nil, err
		}
		roe, err := parseOptionalDecimal(row[5], "roe")
		if err != nil {
			return nil, err
		}
		dividend, err := parseOptionalDecimal(row[6], "dividend")
		if err != nil {
			return nil, err
		}
		shikiho, err := parseInt(row[7], "shikiho")
		if err != nil {
			return nil, err
		}
		target, err := parseOptionalDecimal(row[10], "targetPrice")
		if err != nil {
			return nil, err
		}
		entries = append(entries, model.WatchlistEntry{
			Code:        row[0],
			Name:        row[1],
			Price:       price,
			PER:         per,
			PBR:         pbr,
			ROEPct:      roe,
			Dividend:    dividend,
			Shikiho:     shikiho,
			Tags:        row[8],
			Memo:        row[9],
			TargetPrice: target,
		})
	}
	return entries, nil
}

// ReplaceAll overwrites the watchlist with entries, preserving their order.
func (r *WatchlistRepository) ReplaceAll(ctx context.Context, entries []model.WatchlistEntry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, watchlistHeader)
	for _, e := range entries {
		rows = append(rows, []string{
			e.Code,
			e.Name,
			formatOptionalDecimal(e.Price),
			formatOptionalDecimal(e.PER),
			formatOptionalDecimal(e.PBR),
			formatOptionalDecimal(e.ROEPct),
			formatOptionalDecimal(e.Dividend),
			strconv.FormatInt(e.Shikiho, 10),
			e.Tags,
			e.Memo,
			formatOptionalDecimal(e.TargetPrice),
		})
	}
	if err := r.store.OverwriteAll(ctx, tabular.TableWatchlist, rows); err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	return nil
}
