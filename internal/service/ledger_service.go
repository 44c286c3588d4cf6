package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/symbol"
)

// NameResolver resolves an instrument code to a human-readable display name.
// Implementations are best-effort: an empty string means no name was found
// and the caller falls back to the raw code.
type NameResolver interface {
	ResolveName(ctx context.Context, code string) string
}

// NameResolverFunc adapts a plain function to the NameResolver interface.
type NameResolverFunc func(ctx context.Context, code string) string

// ResolveName calls f.
func (f NameResolverFunc) ResolveName(ctx context.Context, code string) string {
	return f(ctx, code)
}

// LedgerService is the portfolio ledger reconciliation engine. Given a trade
// it atomically (to the extent the storage model allows) derives updated
// holdings, an updated cash balance and a new trade-log entry, preserving the
// accounting invariants across the independently persisted tables.
type LedgerService struct {
	holdings *repository.HoldingsRepository
	cash     *repository.CashRepository
	trades   *repository.TradeLogRepository
	names    NameResolver
}

// NewLedgerService creates a new LedgerService with the provided repository
// dependencies. names may be nil, in which case trade records fall back to
// the instrument code as their display name.
func NewLedgerService(
	holdings *repository.HoldingsRepository,
	cash *repository.CashRepository,
	trades *repository.TradeLogRepository,
	names NameResolver,
) *LedgerService {
	return &LedgerService{
		holdings: holdings,
		cash:     cash,
		trades:   trades,
		names:    names,
	}
}

// RecordTrade validates and applies one buy or sell trade.
//
// The flow is: validate input, read current Holdings and CashBalance, apply
// the weighted-average cost update and the cash delta in memory, then persist
// Holdings, then CashBalance, then the TradeLog entry, in that order. The
// store has no multi-table transactions, so a crash between writes leaves
// tables out of step; the fixed write order keeps the damage recoverable
// because the trade log is only appended once the views it implies are
// durable, and RebuildLedger can re-derive the views from the log at any
// time. Validation failures and insufficient-shares rejections happen before
// the first write, so they never leave partial state.
//
// The trade amount is always derived as price × shares. The display name
// comes from the resolver, falling back to the normalized code so a record is
// never persisted with an empty name.
func (s *LedgerService) RecordTrade(
	ctx context.Context,
	date time.Time,
	rawCode string,
	side model.TradeSide,
	price decimal.Decimal,
	shares int64,
	note string,
) (model.TradeRecord, error) {
	if err := validateTradeInput(rawCode, side, price, shares); err != nil {
		return model.TradeRecord{}, err
	}
	code := symbol.Normalize(rawCode)

	holdings, err := s.holdings.GetAll(ctx)
	if err != nil {
		return model.TradeRecord{}, err
	}
	cash, err := s.cash.Get(ctx)
	if err != nil {
		return model.TradeRecord{}, err
	}

	name := s.resolveName(ctx, code)
	existingIdx := -1
	for i := range holdings {
		if holdings[i].Code == code {
			existingIdx = i
			break
		}
	}
	if name == "" && existingIdx >= 0 {
		name = holdings[existingIdx].Name
	}
	if name == "" {
		name = code
	}

	switch side {
	case model.TradeSideBuy:
		if existingIdx >= 0 {
			holdings[existingIdx] = ApplyBuy(&holdings[existingIdx], code, name, price, shares)
		} else {
			holdings = append(holdings, ApplyBuy(nil, code, name, price, shares))
		}
	case model.TradeSideSell:
		if existingIdx < 0 {
			return model.TradeRecord{}, fmt.Errorf("%w: no position in %s",
				apperrors.ErrInsufficientShares, code)
		}
		remaining, err := ApplySell(holdings[existingIdx], shares)
		if err != nil {
			return model.TradeRecord{}, err
		}
		if remaining == nil {
			holdings = append(holdings[:existingIdx], holdings[existingIdx+1:]...)
		} else {
			holdings[existingIdx] = *remaining
		}
	}

	amount := price.Mul(decimal.NewFromInt(shares))
	record := model.TradeRecord{
		Date:   date,
		Code:   code,
		Name:   name,
		Side:   side,
		Price:  price,
		Shares: shares,
		Amount: amount,
		Note:   note,
	}

	// Holdings first, cash second, log last. See method comment.
	if err := s.holdings.ReplaceAll(ctx, holdings); err != nil {
		return model.TradeRecord{}, err
	}
	if err := s.cash.Set(ctx, ApplyCashDelta(cash, side, amount)); err != nil {
		return model.TradeRecord{}, err
	}
	if err := s.trades.Append(ctx, record); err != nil {
		return model.TradeRecord{}, err
	}

	return record, nil
}

// GetHoldings returns the current holdings.
func (s *LedgerService) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	return s.holdings.GetAll(ctx)
}

// GetCash returns the current cash balance.
func (s *LedgerService) GetCash(ctx context.Context) (decimal.Decimal, error) {
	return s.cash.Get(ctx)
}

// SetCash overwrites the cash balance directly. Outside of trades the balance
// is user-edited, so no validation beyond being a number applies (overdraft
// included).
func (s *LedgerService) SetCash(ctx context.Context, amount decimal.Decimal) error {
	return s.cash.Set(ctx, amount)
}

// GetTrades returns the full trade log, oldest first.
func (s *LedgerService) GetTrades(ctx context.Context) ([]model.TradeRecord, error) {
	return s.trades.GetAll(ctx)
}

// RebuildLedger replays the trade log and overwrites Holdings and CashBalance
// with the result. This is the recovery path for corruption or lost updates
// caused by concurrent writers racing on the overwrite-all store. The
// returned holdings are read back from the store so they carry the persisted
// representation (whole-yen average cost), not the full-precision replay.
func (s *LedgerService) RebuildLedger(ctx context.Context) ([]model.Holding, decimal.Decimal, error) {
	trades, err := s.trades.GetAll(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	holdings, cash := RebuildFromLedger(trades)
	if err := s.holdings.ReplaceAll(ctx, holdings); err != nil {
		return nil, decimal.Zero, err
	}
	if err := s.cash.Set(ctx, cash); err != nil {
		return nil, decimal.Zero, err
	}

	stored, err := s.holdings.GetAll(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return stored, cash, nil
}

func (s *LedgerService) resolveName(ctx context.Context, code string) string {
	if s.names == nil {
		return ""
	}
	return strings.TrimSpace(s.names.ResolveName(ctx, code))
}

func validateTradeInput(rawCode string, side model.TradeSide, price decimal.Decimal, shares int64) error {
	if strings.TrimSpace(rawCode) == "" {
		return fmt.Errorf("%w: code is required", apperrors.ErrInvalidTradeInput)
	}
	if side != model.TradeSideBuy && side != model.TradeSideSell {
		return fmt.Errorf("%w: side must be %q or %q", apperrors.ErrInvalidTradeInput,
			model.TradeSideBuy, model.TradeSideSell)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", apperrors.ErrInvalidTradeInput)
	}
	if shares <= 0 {
		return fmt.Errorf("%w: shares must be positive", apperrors.ErrInvalidTradeInput)
	}
	return nil
}
