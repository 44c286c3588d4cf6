package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

var tradeLogHeader = []string{"date", "code", "name", "side", "price", "shares", "amount", "note"}

// TradeLogRepository provides data access for the append-only trade log.
// The log is the system's source of truth: Holdings and CashBalance are
// materialized views rebuildable from it.
type TradeLogRepository struct {
	store tabular.Store
}

// NewTradeLogRepository creates a new TradeLogRepository on the given store.
func NewTradeLogRepository(store tabular.Store) *TradeLogRepository {
	return &TradeLogRepository{store: store}
}

// GetAll returns every trade in log order (oldest first).
func (r *TradeLogRepository) GetAll(ctx context.Context) ([]model.TradeRecord, error) {
	rows, err := r.store.ReadAll(ctx, tabular.TableTradeLog)
	if err != nil {
		return nil, fmt.Errorf("read trade log: %w", err)
	}
	if err := checkHeader(rows, tradeLogHeader); err != nil {
		return nil, err
	}

	trades := []model.TradeRecord{}
	for _, row := range dataRows(rows) {
		if len(row) < len(tradeLogHeader) {
			continue
		}
		date, err := parseDate(row[0], "date")
		if err != nil {
			return nil, err
		}
		price, err := parseDecimal(row[4], "price")
		if err != nil {
			return nil, err
		}
		shares, err := parseInt(row[5], "shares")
		if err != nil {
			return nil, err
		}
		amount, err := parseDecimal(row[6], "amount")
		if err != nil {
			return nil, err
		}
		trades = append(trades, model.TradeRecord{
			Date:   date,
			Code:   row[1],
			Name:   row[2],
			Side:   model.TradeSide(row[3]),
			Price:  price,
			Shares: shares,
			Amount: amount,
			Note:   row[7],
		})
	}
	return trades, nil
}

// Append adds one record to the end of the log. The backing store has no
// append primitive, so this reads the current log and overwrites it with the
// record attached; existing rows are written back byte-for-byte.
func (r *TradeLogRepository) Append(ctx context.Context, record model.TradeRecord) error {
	rows, err := r.store.ReadAll(ctx, tabular.TableTradeLog)
	if err != nil {
		return fmt.Errorf("read trade log: %w", err)
	}
	if err := checkHeader(rows, tradeLogHeader); err != nil {
		return err
	}
	if len(rows) == 0 {
		rows = [][]string{tradeLogHeader}
	}

	rows = append(rows, []string{
		record.Date.Format(dateLayout),
		record.Code,
		record.Name,
		string(record.Side),
		record.Price.String(),
		strconv.FormatInt(record.Shares, 10),
		record.Amount.String(),
		record.Note,
	})
	if err := r.store.OverwriteAll(ctx, tabular.TableTradeLog, rows); err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}
