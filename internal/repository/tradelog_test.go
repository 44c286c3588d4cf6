package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/tabular"
	"github.com/kabutools/kabu-ledger/internal/testutil"
)

// TestTradeLogRepository tests the append-only log's read/append behaviour.
//
// WHY: the log is the source of truth. Append must preserve every existing
// row exactly, and order must survive the read-append-overwrite cycle.
func TestTradeLogRepository(t *testing.T) {
	ctx := context.Background()

	record := func(t *testing.T, date, code, side, price string, shares int64) model.TradeRecord {
		t.Helper()
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			t.Fatalf("bad date: %v", err)
		}
		p := testutil.MustDecimal(t, price)
		return model.TradeRecord{
			Date:   d,
			Code:   code,
			Name:   "Test Co",
			Side:   model.TradeSide(side),
			Price:  p,
			Shares: shares,
			Amount: p.Mul(decimal.NewFromInt(shares)),
			Note:   "note text",
		}
	}

	t.Run("appends preserve order and existing rows", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		repo := repository.NewTradeLogRepository(store)

		first := record(t, "2026-04-01", "7203.T", "buy", "1000", 100)
		second := record(t, "2026-04-02", "7203.T", "sell", "1200", 40)

		if err := repo.Append(ctx, first); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if err := repo.Append(ctx, second); err != nil {
			t.Fatalf("Append: %v", err)
		}

		trades, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if len(trades) != 2 {
			t.Fatalf("log has %d trades, want 2", len(trades))
		}
		if trades[0].Side != model.TradeSideBuy || trades[1].Side != model.TradeSideSell {
			t.Errorf("order = %s, %s; want buy then sell", trades[0].Side, trades[1].Side)
		}
		if !trades[0].Price.Equal(first.Price) || trades[0].Shares != first.Shares {
			t.Errorf("first trade = %+v, want %+v", trades[0], first)
		}
		if trades[1].Note != "note text" {
			t.Errorf("note = %q, want preserved", trades[1].Note)
		}
	})

	t.Run("first append creates the header", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		repo := repository.NewTradeLogRepository(store)

		if err := repo.Append(ctx, record(t, "2026-04-01", "7203.T", "buy", "1000", 100)); err != nil {
			t.Fatalf("Append: %v", err)
		}

		rows := testutil.ReadTable(t, store, tabular.TableTradeLog)
		if len(rows) != 2 {
			t.Fatalf("table has %d rows, want header + 1", len(rows))
		}
		if rows[0][0] != "date" || rows[0][7] != "note" {
			t.Errorf("header = %v, want the trade log columns", rows[0])
		}
		if rows[1][0] != "2026-04-01" {
			t.Errorf("date cell = %q, want 2026-04-01", rows[1][0])
		}
	})
}
