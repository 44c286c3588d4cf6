package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/testutil"
)

// TestHistoryService_MaybeRecordDaily tests daily net-worth recording.
//
// WHY: the daily recorder must be idempotent per calendar day, so the
// scheduler and the manual endpoint can both fire without duplicating points,
// and must suppress zero-valued points from an empty portfolio.
func TestHistoryService_MaybeRecordDaily(t *testing.T) {
	ctx := context.Background()

	t.Run("records once per calendar day", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestHistoryService(t, store, testutil.NewFakeQuoteProvider())

		day := tradeDate(t, "2026-06-15")
		asset := testutil.MustDecimal(t, "1234567")
		pnl := testutil.MustDecimal(t, "34567")
		lt := testutil.MustDecimal(t, "98000")

		written, err := svc.MaybeRecordDaily(ctx, day, asset, pnl, lt)
		if err != nil {
			t.Fatalf("MaybeRecordDaily: %v", err)
		}
		if !written {
			t.Error("first call should record")
		}

		written, err = svc.MaybeRecordDaily(ctx, day.Add(6*time.Hour), asset, pnl, lt)
		if err != nil {
			t.Fatalf("MaybeRecordDaily: %v", err)
		}
		if written {
			t.Error("second call on the same day should be a no-op")
		}

		points, err := svc.GetHistory(ctx)
		if err != nil {
			t.Fatalf("GetHistory: %v", err)
		}
		if len(points) != 1 {
			t.Fatalf("history has %d points, want 1", len(points))
		}
		if !points[0].TotalAsset.Equal(asset) {
			t.Errorf("totalAsset = %s, want %s", points[0].TotalAsset, asset)
		}
	})

	t.Run("next day records again", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestHistoryService(t, store, testutil.NewFakeQuoteProvider())

		asset := testutil.MustDecimal(t, "1000000")
		zero := testutil.MustDecimal(t, "0")
		if _, err := svc.MaybeRecordDaily(ctx, tradeDate(t, "2026-06-15"), asset, zero, zero); err != nil {
			t.Fatalf("day one: %v", err)
		}
		written, err := svc.MaybeRecordDaily(ctx, tradeDate(t, "2026-06-16"), asset, zero, zero)
		if err != nil {
			t.Fatalf("day two: %v", err)
		}
		if !written {
			t.Error("a new day should record")
		}
	})

	t.Run("zero or negative total asset is suppressed", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestHistoryService(t, store, testutil.NewFakeQuoteProvider())

		zero := testutil.MustDecimal(t, "0")
		for _, asset := range []string{"0", "-1000"} {
			written, err := svc.MaybeRecordDaily(ctx, tradeDate(t, "2026-06-15"), testutil.MustDecimal(t, asset), zero, zero)
			if err != nil {
				t.Fatalf("MaybeRecordDaily(%s): %v", asset, err)
			}
			if written {
				t.Errorf("asset %s should not be recorded", asset)
			}
		}
	})
}

// TestHistoryService_MaybeRecordQuarterly tests the quarterly snapshot guard
// conditions and its once-per-quarter dedup.
func TestHistoryService_MaybeRecordQuarterly(t *testing.T) {
	ctx := context.Background()

	holdings := []model.Holding{
		{Code: "7203.T", Name: "Toyota", Shares: 100},
		{Code: "9984.T", Name: "SoftBank G", Shares: 10},
	}

	quotes := func(t *testing.T) map[string]model.Quote {
		t.Helper()
		price := testutil.MustDecimal(t, "2500")
		per := testutil.MustDecimal(t, "10.5")
		return map[string]model.Quote{
			"7203.T": {Price: &price, PER: &per},
			"9984.T": {},
		}
	}

	t.Run("records one row per holding in a quarter month", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestHistoryService(t, store, testutil.NewFakeQuoteProvider())

		written, err := svc.MaybeRecordQuarterly(ctx, tradeDate(t, "2026-03-31"), holdings, quotes(t))
		if err != nil {
			t.Fatalf("MaybeRecordQuarterly: %v", err)
		}
		if !written {
			t.Fatal("expected snapshot batch to be written")
		}

		rows, err := svc.GetSnapshots(ctx)
		if err != nil {
			t.Fatalf("GetSnapshots: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("snapshot has %d rows, want 2", len(rows))
		}
		if rows[0].TaggedDate != "2026-Q1 2026-03-31" {
			t.Errorf("taggedDate = %q, want quarter key then date", rows[0].TaggedDate)
		}
		// Degraded quote leaves metric fields unset.
		if rows[1].Code == "9984.T" && rows[1].Price != nil {
			t.Errorf("9984.T price = %v, want nil from empty quote", rows[1].Price)
		}
	})

	t.Run("same quarter is not recorded twice", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestHistoryService(t, store, testutil.NewFakeQuoteProvider())

		if _, err := svc.MaybeRecordQuarterly(ctx, tradeDate(t, "2026-03-15"), holdings, quotes(t)); err != nil {
			t.Fatalf("first: %v", err)
		}
		written, err := svc.MaybeRecordQuarterly(ctx, tradeDate(t, "2026-03-31"), holdings, quotes(t))
		if err != nil {
			t.Fatalf("second: %v", err)
		}
		if written {
			t.Error("second call within the quarter should be a no-op")
		}

		rows, _ := svc.GetSnapshots(ctx)
		if len(rows) != 2 {
			t.Errorf("snapshot has %d rows, want the original 2", len(rows))
		}
	})

	t.Run("non-quarter months are skipped", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestHistoryService(t, store, testutil.NewFakeQuoteProvider())

		for _, date := range []string{"2026-01-31", "2026-04-30", "2026-07-31", "2026-11-30"} {
			written, err := svc.MaybeRecordQuarterly(ctx, tradeDate(t, date), holdings, quotes(t))
			if err != nil {
				t.Fatalf("MaybeRecordQuarterly(%s): %v", date, err)
			}
			if written {
				t.Errorf("%s is not a quarter close month, should not record", date)
			}
		}
	})

	t.Run("no holdings means no snapshot", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestHistoryService(t, store, testutil.NewFakeQuoteProvider())

		written, err := svc.MaybeRecordQuarterly(ctx, tradeDate(t, "2026-03-31"), nil, nil)
		if err != nil {
			t.Fatalf("MaybeRecordQuarterly: %v", err)
		}
		if written {
			t.Error("empty portfolio should not snapshot")
		}
	})
}

// TestHistoryService_RecordQuarter tests the snapshot-only recording path
// used by the manual snapshot endpoint.
func TestHistoryService_RecordQuarter(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	quotes := testutil.NewFakeQuoteProvider()
	svc := testutil.NewTestHistoryService(t, store, quotes)
	ledger := testutil.NewTestLedgerService(t, store)

	if _, err := ledger.RecordTrade(ctx, tradeDate(t, "2026-03-01"), "7203",
		model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}
	quotes.SetPrice("7203.T", testutil.MustDecimal(t, "1100"))

	written, err := svc.RecordQuarter(ctx, tradeDate(t, "2026-03-31"))
	if err != nil {
		t.Fatalf("RecordQuarter: %v", err)
	}
	if !written {
		t.Fatal("expected a snapshot batch")
	}

	rows, err := svc.GetSnapshots(ctx)
	if err != nil {
		t.Fatalf("GetSnapshots: %v", err)
	}
	if len(rows) != 1 || rows[0].Code != "7203.T" {
		t.Fatalf("snapshot = %+v, want one row for 7203.T", rows)
	}
	if rows[0].Price == nil || !rows[0].Price.Equal(testutil.MustDecimal(t, "1100")) {
		t.Errorf("price = %v, want fresh quote 1100", rows[0].Price)
	}

	// No daily point is written by this path.
	points, err := svc.GetHistory(ctx)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("history has %d points, want none", len(points))
	}
}

// TestHistoryService_RecordToday tests the close-of-day flow end to end over
// the in-memory store.
//
// WHY: RecordToday combines valuation, cash and both recorders. This pins
// that total asset = market value of holdings + cash.
func TestHistoryService_RecordToday(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	quotes := testutil.NewFakeQuoteProvider()
	svc := testutil.NewTestHistoryService(t, store, quotes)
	ledger := testutil.NewTestLedgerService(t, store)

	if err := ledger.SetCash(ctx, testutil.MustDecimal(t, "500000")); err != nil {
		t.Fatalf("SetCash: %v", err)
	}
	if _, err := ledger.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
		model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}
	quotes.SetPrice("7203.T", testutil.MustDecimal(t, "1200"))

	daily, quarterly, err := svc.RecordToday(ctx, tradeDate(t, "2026-04-02"))
	if err != nil {
		t.Fatalf("RecordToday: %v", err)
	}
	if !daily {
		t.Error("expected a daily point")
	}
	if quarterly {
		t.Error("April is not a quarter close month")
	}

	points, err := svc.GetHistory(ctx)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("history has %d points, want 1", len(points))
	}
	// 1200*100 market value + (500000-100000) cash
	if !points[0].TotalAsset.Equal(testutil.MustDecimal(t, "520000")) {
		t.Errorf("totalAsset = %s, want 520000", points[0].TotalAsset)
	}
	// (1200-1000)*100
	if !points[0].TotalPnL.Equal(testutil.MustDecimal(t, "20000")) {
		t.Errorf("totalPnL = %s, want 20000", points[0].TotalPnL)
	}
}
