package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/tabular"
)

var cashHeader = []string{"cashAmount"}

// CashRepository provides data access for the single-row CashBalance table.
type CashRepository struct {
	store tabular.Store
}

// NewCashRepository creates a new CashRepository on the given store.
func NewCashRepository(store tabular.Store) *CashRepository {
	return &CashRepository{store: store}
}

// Get returns the current cash balance. An unwritten table reads as zero.
func (r *CashRepository) Get(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.store.ReadAll(ctx, tabular.TableCash)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read cash balance: %w", err)
	}
	if err := checkHeader(rows, cashHeader); err != nil {
		return decimal.Zero, err
	}

	data := dataRows(rows)
	if len(data) == 0 || len(data[0]) == 0 {
		return decimal.Zero, nil
	}
	return parseDecimal(data[0][0], "cashAmount")
}

// Set overwrites the cash balance. Negative values are stored as-is: the
// ledger permits overdraft.
func (r *CashRepository) Set(ctx context.Context, amount decimal.Decimal) error {
	rows := [][]string{cashHeader, {amount.String()}}
	if err := r.store.OverwriteAll(ctx, tabular.TableCash, rows); err != nil {
		return fmt.Errorf("write cash balance: %w", err)
	}
	return nil
}
