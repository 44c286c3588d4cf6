package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/service"
	"github.com/kabutools/kabu-ledger/internal/tabular"
	"github.com/kabutools/kabu-ledger/internal/testutil"
)

func tradeDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

// TestLedgerService_RecordTrade tests the full trade recording flow against
// the in-memory store.
//
// WHY: RecordTrade is the one operation that mutates three tables. These
// tests pin the cross-table outcome: holdings, cash and the trade log must
// all reflect the trade, and rejected trades must leave all three untouched.
func TestLedgerService_RecordTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("buy creates holding, debits cash, appends log", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestLedgerService(t, store)

		if err := svc.SetCash(ctx, testutil.MustDecimal(t, "500000")); err != nil {
			t.Fatalf("SetCash: %v", err)
		}

		record, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
			model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, "first buy")
		if err != nil {
			t.Fatalf("RecordTrade: %v", err)
		}

		if record.Code != "7203.T" {
			t.Errorf("code = %s, want normalized 7203.T", record.Code)
		}
		if !record.Amount.Equal(testutil.MustDecimal(t, "100000")) {
			t.Errorf("amount = %s, want 100000", record.Amount)
		}
		holdings, err := svc.GetHoldings(ctx)
		if err != nil {
			t.Fatalf("GetHoldings: %v", err)
		}
		if len(holdings) != 1 || holdings[0].Shares != 100 {
			t.Fatalf("holdings = %+v, want one holding of 100 shares", holdings)
		}

		cash, err := svc.GetCash(ctx)
		if err != nil {
			t.Fatalf("GetCash: %v", err)
		}
		if !cash.Equal(testutil.MustDecimal(t, "400000")) {
			t.Errorf("cash = %s, want 400000", cash)
		}

		trades, err := svc.GetTrades(ctx)
		if err != nil {
			t.Fatalf("GetTrades: %v", err)
		}
		if len(trades) != 1 {
			t.Fatalf("trade log has %d entries, want 1", len(trades))
		}
		// The create response and the log read-back describe the same record.
		if trades[0].Code != record.Code || trades[0].Shares != record.Shares ||
			!trades[0].Amount.Equal(record.Amount) || trades[0].Note != record.Note {
			t.Errorf("logged trade = %+v, want created record %+v", trades[0], record)
		}
	})

	t.Run("sell credits cash and keeps average cost", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestLedgerService(t, store)

		if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
			model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, ""); err != nil {
			t.Fatalf("buy: %v", err)
		}
		if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-02"), "7203",
			model.TradeSideSell, testutil.MustDecimal(t, "1200"), 40, ""); err != nil {
			t.Fatalf("sell: %v", err)
		}

		holdings, err := svc.GetHoldings(ctx)
		if err != nil {
			t.Fatalf("GetHoldings: %v", err)
		}
		if len(holdings) != 1 || holdings[0].Shares != 60 {
			t.Fatalf("holdings = %+v, want 60 shares remaining", holdings)
		}
		if !holdings[0].AvgCost.Equal(testutil.MustDecimal(t, "1000")) {
			t.Errorf("avgCost = %s, want 1000 unchanged by sell", holdings[0].AvgCost)
		}

		cash, err := svc.GetCash(ctx)
		if err != nil {
			t.Fatalf("GetCash: %v", err)
		}
		// -100000 + 48000
		if !cash.Equal(testutil.MustDecimal(t, "-52000")) {
			t.Errorf("cash = %s, want -52000", cash)
		}
	})

	t.Run("selling the whole position deletes the holding row", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestLedgerService(t, store)

		if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
			model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, ""); err != nil {
			t.Fatalf("buy: %v", err)
		}
		if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-02"), "7203",
			model.TradeSideSell, testutil.MustDecimal(t, "1200"), 100, ""); err != nil {
			t.Fatalf("sell: %v", err)
		}

		holdings, err := svc.GetHoldings(ctx)
		if err != nil {
			t.Fatalf("GetHoldings: %v", err)
		}
		if len(holdings) != 0 {
			t.Errorf("holdings = %+v, want none", holdings)
		}
	})

	t.Run("over-sell rejected leaving all tables unchanged", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestLedgerService(t, store)

		if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
			model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, ""); err != nil {
			t.Fatalf("buy: %v", err)
		}
		cashBefore, _ := svc.GetCash(ctx)

		_, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-02"), "7203",
			model.TradeSideSell, testutil.MustDecimal(t, "1200"), 101, "")
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Fatalf("error = %v, want ErrInsufficientShares", err)
		}

		holdings, _ := svc.GetHoldings(ctx)
		if len(holdings) != 1 || holdings[0].Shares != 100 {
			t.Errorf("holdings changed after rejected sell: %+v", holdings)
		}
		cashAfter, _ := svc.GetCash(ctx)
		if !cashAfter.Equal(cashBefore) {
			t.Errorf("cash changed after rejected sell: %s -> %s", cashBefore, cashAfter)
		}
		trades, _ := svc.GetTrades(ctx)
		if len(trades) != 1 {
			t.Errorf("trade log grew after rejected sell: %d entries", len(trades))
		}
	})

	t.Run("sell with no position rejected", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestLedgerService(t, store)

		_, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
			model.TradeSideSell, testutil.MustDecimal(t, "1200"), 10, "")
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Errorf("error = %v, want ErrInsufficientShares", err)
		}
	})

	t.Run("validation failures write nothing", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		svc := testutil.NewTestLedgerService(t, store)

		cases := []struct {
			name   string
			code   string
			side   model.TradeSide
			price  string
			shares int64
		}{
			{"empty code", "  ", model.TradeSideBuy, "1000", 100},
			{"bad side", "7203", model.TradeSide("short"), "1000", 100},
			{"zero price", "7203", model.TradeSideBuy, "0", 100},
			{"negative price", "7203", model.TradeSideBuy, "-5", 100},
			{"zero shares", "7203", model.TradeSideBuy, "1000", 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), tc.code,
					tc.side, testutil.MustDecimal(t, tc.price), tc.shares, "")
				if !errors.Is(err, apperrors.ErrInvalidTradeInput) {
					t.Errorf("error = %v, want ErrInvalidTradeInput", err)
				}
			})
		}

		trades, _ := svc.GetTrades(ctx)
		if len(trades) != 0 {
			t.Errorf("trade log has %d entries after rejected inputs, want 0", len(trades))
		}
	})

	t.Run("name falls back to resolver then holding then code", func(t *testing.T) {
		store := testutil.SetupTestStore(t)

		resolved := "Toyota Motor"
		svc := service.NewLedgerService(
			repository.NewHoldingsRepository(store),
			repository.NewCashRepository(store),
			repository.NewTradeLogRepository(store),
			service.NameResolverFunc(func(_ context.Context, code string) string {
				if code == "7203.T" {
					return resolved
				}
				return ""
			}),
		)

		record, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
			model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, "")
		if err != nil {
			t.Fatalf("RecordTrade: %v", err)
		}
		if record.Name != "Toyota Motor" {
			t.Errorf("name = %q, want resolver value", record.Name)
		}

		// Resolver goes silent; the existing holding supplies the name.
		resolved = ""
		record, err = svc.RecordTrade(ctx, tradeDate(t, "2026-04-02"), "7203",
			model.TradeSideBuy, testutil.MustDecimal(t, "1100"), 50, "")
		if err != nil {
			t.Fatalf("RecordTrade: %v", err)
		}
		if record.Name != "Toyota Motor" {
			t.Errorf("name = %q, want name carried from holding", record.Name)
		}

		// Unknown code with no resolver hit falls back to the code itself.
		record, err = svc.RecordTrade(ctx, tradeDate(t, "2026-04-03"), "9984",
			model.TradeSideBuy, testutil.MustDecimal(t, "6000"), 10, "")
		if err != nil {
			t.Fatalf("RecordTrade: %v", err)
		}
		if record.Name != "9984.T" {
			t.Errorf("name = %q, want code fallback", record.Name)
		}
	})
}

// TestLedgerService_RebuildLedger tests the recovery path.
//
// WHY: rebuild overwrites the materialized views from the trade log. After a
// normal trade sequence, rebuilding must be a no-op on holdings.
func TestLedgerService_RebuildLedger(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	svc := testutil.NewTestLedgerService(t, store)

	if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
		model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-02"), "7203",
		model.TradeSideBuy, testutil.MustDecimal(t, "1100"), 50, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}

	before, err := svc.GetHoldings(ctx)
	if err != nil {
		t.Fatalf("GetHoldings: %v", err)
	}

	rebuilt, cash, err := svc.RebuildLedger(ctx)
	if err != nil {
		t.Fatalf("RebuildLedger: %v", err)
	}

	if len(rebuilt) != len(before) {
		t.Fatalf("rebuilt %d holdings, want %d", len(rebuilt), len(before))
	}
	for i := range rebuilt {
		if rebuilt[i].Code != before[i].Code || rebuilt[i].Shares != before[i].Shares {
			t.Errorf("holding %d = %+v, want %+v", i, rebuilt[i], before[i])
		}
		if !rebuilt[i].AvgCost.Equal(before[i].AvgCost) {
			t.Errorf("holding %d avgCost = %s, want %s", i, rebuilt[i].AvgCost, before[i].AvgCost)
		}
	}
	// The returned holdings carry the persisted whole-yen cost, not the
	// full-precision replay value ((100*1000 + 50*1100) / 150 = 1033.33...).
	if !rebuilt[0].AvgCost.Equal(testutil.MustDecimal(t, "1033")) {
		t.Errorf("avgCost = %s, want stored 1033", rebuilt[0].AvgCost)
	}
	if !cash.Equal(testutil.MustDecimal(t, "-155000")) {
		t.Errorf("rebuilt cash = %s, want -155000", cash)
	}

	stored, err := svc.GetCash(ctx)
	if err != nil {
		t.Fatalf("GetCash: %v", err)
	}
	if !stored.Equal(cash) {
		t.Errorf("stored cash = %s, want rebuild result %s", stored, cash)
	}
}

// TestLedgerService_PartialWriteRecovery tests that a write failure after the
// holdings write leaves a state the rebuild can repair.
//
// WHY: the store has no transactions. The documented failure mode is views
// ahead of the log; rebuild must bring them back in line with the log.
func TestLedgerService_PartialWriteRecovery(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	svc := testutil.NewTestLedgerService(t, store)

	if _, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-01"), "7203",
		model.TradeSideBuy, testutil.MustDecimal(t, "1000"), 100, ""); err != nil {
		t.Fatalf("buy: %v", err)
	}

	// Holdings and cash writes succeed, the log append fails.
	store.FailTable(tabular.TableTradeLog, apperrors.ErrPermanentStore)
	_, err := svc.RecordTrade(ctx, tradeDate(t, "2026-04-02"), "7203",
		model.TradeSideBuy, testutil.MustDecimal(t, "1100"), 50, "")
	store.FailTable(tabular.TableTradeLog, nil)
	if err == nil {
		t.Fatal("expected write failure")
	}

	// Views are ahead of the log now. Rebuild re-derives from the log.
	holdings, _, err := svc.RebuildLedger(ctx)
	if err != nil {
		t.Fatalf("RebuildLedger: %v", err)
	}
	if len(holdings) != 1 || holdings[0].Shares != 100 {
		t.Errorf("holdings = %+v, want the single logged buy of 100 shares", holdings)
	}
}
