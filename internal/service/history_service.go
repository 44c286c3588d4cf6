package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/repository"
)

// HistoryService owns the derived time-series: the daily net-worth history
// and the quarterly valuation snapshots. Both recorders are idempotent
// appends ("append unless the period is already represented") with the
// uniqueness check done by the engine, not the store.
type HistoryService struct {
	history   *repository.HistoryRepository
	snapshots *repository.SnapshotRepository
	ledger    *LedgerService
	valuation *ValuationService
}

// NewHistoryService creates a new HistoryService with the provided
// dependencies.
func NewHistoryService(
	history *repository.HistoryRepository,
	snapshots *repository.SnapshotRepository,
	ledger *LedgerService,
	valuation *ValuationService,
) *HistoryService {
	return &HistoryService{
		history:   history,
		snapshots: snapshots,
		ledger:    ledger,
		valuation: valuation,
	}
}

// GetHistory returns the full daily history.
func (s *HistoryService) GetHistory(ctx context.Context) ([]model.NetWorthPoint, error) {
	return s.history.GetAll(ctx)
}

// GetSnapshots returns every quarterly snapshot row.
func (s *HistoryService) GetSnapshots(ctx context.Context) ([]model.QuarterlySnapshotRow, error) {
	return s.snapshots.GetAll(ctx)
}

// MaybeRecordDaily appends a history point for today unless one already
// exists for the same calendar day. Returns whether a point was written.
//
// A totalAsset of zero or less also suppresses recording. That is a guard
// against writing spurious zero-valued points before any holding exists (or
// when every quote failed), not an accounting rule.
func (s *HistoryService) MaybeRecordDaily(
	ctx context.Context,
	today time.Time,
	totalAsset, totalPnL, totalLookThrough decimal.Decimal,
) (bool, error) {
	if !totalAsset.IsPositive() {
		return false, nil
	}

	points, err := s.history.GetAll(ctx)
	if err != nil {
		return false, err
	}
	day := today.Format("2006-01-02")
	for _, p := range points {
		if p.Date.Format("2006-01-02") == day {
			return false, nil
		}
	}

	point := model.NetWorthPoint{
		Date:             today,
		TotalAsset:       totalAsset,
		TotalPnL:         totalPnL,
		TotalLookThrough: totalLookThrough,
	}
	if err := s.history.Append(ctx, point); err != nil {
		return false, err
	}
	return true, nil
}

// MaybeRecordQuarterly appends one snapshot row per held instrument, at most
// once per (year, quarter). Returns whether a batch was written.
//
// Recording only triggers in the closing month of a quarter (March, June,
// September, December), only when at least one holding exists, and only when
// no existing row's date field already contains the quarter key. The key is
// embedded in the date cell ("2025-Q1 2025-03-31") because the backing store
// has no structured queries to dedup against; a port to a real database
// should promote it to an indexed (year, quarter) column instead.
func (s *HistoryService) MaybeRecordQuarterly(
	ctx context.Context,
	today time.Time,
	holdings []model.Holding,
	quotes map[string]model.Quote,
) (bool, error) {
	switch today.Month() {
	case time.March, time.June, time.September, time.December:
	default:
		return false, nil
	}
	if len(holdings) == 0 {
		return false, nil
	}

	quarterKey := model.QuarterKey(today)
	existing, err := s.snapshots.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, row := range existing {
		if strings.Contains(row.TaggedDate, quarterKey) {
			return false, nil
		}
	}

	taggedDate := quarterKey + " " + today.Format("2006-01-02")
	batch := make([]model.QuarterlySnapshotRow, 0, len(holdings))
	for _, h := range holdings {
		quote := quotes[h.Code]
		batch = append(batch, model.QuarterlySnapshotRow{
			TaggedDate: taggedDate,
			Code:       h.Code,
			Name:       h.Name,
			Price:      quote.Price,
			PER:        quote.PER,
			PBR:        quote.PBR,
			ROEPct:     quote.ROEPct,
		})
	}
	if err := s.snapshots.AppendBatch(ctx, batch); err != nil {
		return false, err
	}
	return true, nil
}

// RecordQuarter offers only the quarterly snapshot to its recorder, using a
// fresh valuation of the current holdings. Returns whether a batch was
// written.
func (s *HistoryService) RecordQuarter(ctx context.Context, now time.Time) (bool, error) {
	holdings, err := s.ledger.GetHoldings(ctx)
	if err != nil {
		return false, err
	}

	_, _, quotes := s.valuation.RefreshValuation(ctx, holdings)
	return s.MaybeRecordQuarterly(ctx, now, holdings, quotes)
}

// RecordToday runs the close-of-day flow: refresh the valuation of every
// holding, then offer a daily point (total asset = holdings market value +
// cash) and a quarterly snapshot to their respective recorders. Returns
// whether each was written.
func (s *HistoryService) RecordToday(ctx context.Context, now time.Time) (daily, quarterly bool, err error) {
	holdings, err := s.ledger.GetHoldings(ctx)
	if err != nil {
		return false, false, err
	}
	cash, err := s.ledger.GetCash(ctx)
	if err != nil {
		return false, false, err
	}

	_, totals, quotes := s.valuation.RefreshValuation(ctx, holdings)
	totalAsset := totals.TotalMarketValue.Add(cash)

	daily, err = s.MaybeRecordDaily(ctx, now, totalAsset, totals.TotalUnrealized, totals.TotalLookThrough)
	if err != nil {
		return daily, false, err
	}
	quarterly, err = s.MaybeRecordQuarterly(ctx, now, holdings, quotes)
	return daily, quarterly, err
}
