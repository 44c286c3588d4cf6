// Package tabular provides the generic table persistence contract the ledger
// runs on: read all rows of a named table, or overwrite them all. There are no
// partial updates, no row-level locks and no multi-table transactions; the
// last writer of a table wins. The engine above this package is written to be
// correct under exactly that storage model.
//
// Rows are plain string cells. By convention the first row of a non-empty
// table is its header; repositories own the column layout and verify it.
package tabular

import "context"

// Table names used by the application.
const (
	TableHoldings  = "Holdings"
	TableCash      = "CashBalance"
	TableTradeLog  = "TradeLog"
	TableHistory   = "NetWorthHistory"
	TableSnapshots = "QuarterlySnapshot"
	TableWatchlist = "Watchlist"
	TableSettings  = "Settings"
)

// Store is the read-all/overwrite-all persistence contract.
//
// ReadAll returns every row of the table, header row first, or an empty slice
// for a table that has never been written. OverwriteAll replaces the entire
// table contents with rows.
//
// Failures are classified by wrapping apperrors.ErrTransientStore or
// apperrors.ErrPermanentStore so callers can decide whether to retry.
type Store interface {
	ReadAll(ctx context.Context, table string) ([][]string, error)
	OverwriteAll(ctx context.Context, table string, rows [][]string) error
}
