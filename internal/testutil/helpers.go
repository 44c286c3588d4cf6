package testutil

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/service"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

// MustDecimal parses a decimal literal, failing the test on error.
func MustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// NewTestLedgerService wires a LedgerService over the given store with no
// name resolver.
func NewTestLedgerService(t *testing.T, store tabular.Store) *service.LedgerService {
	t.Helper()

	holdingsRepo := repository.NewHoldingsRepository(store)
	cashRepo := repository.NewCashRepository(store)
	tradeLogRepo := repository.NewTradeLogRepository(store)

	return service.NewLedgerService(holdingsRepo, cashRepo, tradeLogRepo, nil)
}

// NewTestHistoryService wires a HistoryService over the given store and quote
// provider.
func NewTestHistoryService(t *testing.T, store tabular.Store, quotes *FakeQuoteProvider) *service.HistoryService {
	t.Helper()

	historyRepo := repository.NewHistoryRepository(store)
	snapshotRepo := repository.NewSnapshotRepository(store)
	ledger := NewTestLedgerService(t, store)
	valuation := service.NewValuationService(quotes)

	return service.NewHistoryService(historyRepo, snapshotRepo, ledger, valuation)
}

// NewTestWatchlistService wires a WatchlistService over the given store and
// quote provider.
func NewTestWatchlistService(t *testing.T, store tabular.Store, quotes *FakeQuoteProvider) *service.WatchlistService {
	t.Helper()

	watchlistRepo := repository.NewWatchlistRepository(store)
	return service.NewWatchlistService(watchlistRepo, quotes)
}

// NewTestSummaryService wires a SummaryService over the given store.
func NewTestSummaryService(t *testing.T, store tabular.Store) *service.SummaryService {
	t.Helper()

	tradeLogRepo := repository.NewTradeLogRepository(store)
	return service.NewSummaryService(tradeLogRepo)
}
