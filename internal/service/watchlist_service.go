package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/symbol"
)

// WatchlistService manages the research watchlist: candidate instruments with
// quote-derived metrics, a quarterly-handbook (四季報) lookup counter, tags and
// free-text notes.
type WatchlistService struct {
	watchlist *repository.WatchlistRepository
	quotes    QuoteProvider
}

// NewWatchlistService creates a new WatchlistService with the provided
// dependencies.
func NewWatchlistService(watchlist *repository.WatchlistRepository, quotes QuoteProvider) *WatchlistService {
	return &WatchlistService{watchlist: watchlist, quotes: quotes}
}

// WatchlistEntryView is a watchlist entry enriched with research links.
type WatchlistEntryView struct {
	model.WatchlistEntry
	IRSearcherLink string `json:"irSearcherLink"`
	IRBankLink     string `json:"irBankLink"`
}

// Add puts a code on the watchlist. Adding a code that is already listed does
// not create a duplicate row: it increments the entry's shikiho counter (the
// user looked the company up again) and refreshes its name if the quote
// carries one. Returns the entry and whether it was newly created.
func (s *WatchlistService) Add(ctx context.Context, rawCode string) (model.WatchlistEntry, bool, error) {
	code := symbol.Normalize(rawCode)
	entries, err := s.watchlist.GetAll(ctx)
	if err != nil {
		return model.WatchlistEntry{}, false, err
	}

	quote := s.quotes.Lookup(ctx, code)

	for i := range entries {
		if entries[i].Code == code {
			entries[i].Shikiho++
			if quote.DisplayName != "" {
				entries[i].Name = quote.DisplayName
			}
			if err := s.watchlist.ReplaceAll(ctx, entries); err != nil {
				return model.WatchlistEntry{}, false, err
			}
			return entries[i], false, nil
		}
	}

	entry := model.WatchlistEntry{
		Code:     code,
		Name:     quote.DisplayName,
		Price:    quote.Price,
		PER:      quote.PER,
		PBR:      quote.PBR,
		ROEPct:   quote.ROEPct,
		Dividend: quote.DividendYield,
		Shikiho:  1,
	}
	entries = append(entries, entry)
	if err := s.watchlist.ReplaceAll(ctx, entries); err != nil {
		return model.WatchlistEntry{}, false, err
	}
	return entry, true, nil
}

// Update edits the user-owned fields of an entry: tags (normalized), memo and
// target price. Quote-derived fields are not editable here.
func (s *WatchlistService) Update(ctx context.Context, rawCode string, tags, memo *string, targetPrice *decimal.Decimal) (model.WatchlistEntry, error) {
	code := symbol.Normalize(rawCode)
	entries, err := s.watchlist.GetAll(ctx)
	if err != nil {
		return model.WatchlistEntry{}, err
	}

	for i := range entries {
		if entries[i].Code != code {
			continue
		}
		if tags != nil {
			entries[i].Tags = symbol.NormalizeTags(*tags)
		}
		if memo != nil {
			entries[i].Memo = *memo
		}
		if targetPrice != nil {
			entries[i].TargetPrice = targetPrice
		}
		if err := s.watchlist.ReplaceAll(ctx, entries); err != nil {
			return model.WatchlistEntry{}, err
		}
		return entries[i], nil
	}
	return model.WatchlistEntry{}, fmt.Errorf("%w: %s", apperrors.ErrWatchlistEntryNotFound, code)
}

// Delete removes an entry from the watchlist.
func (s *WatchlistService) Delete(ctx context.Context, rawCode string) error {
	code := symbol.Normalize(rawCode)
	entries, err := s.watchlist.GetAll(ctx)
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].Code == code {
			entries = append(entries[:i], entries[i+1:]...)
			return s.watchlist.ReplaceAll(ctx, entries)
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrWatchlistEntryNotFound, code)
}

// List returns watchlist entries with research links, optionally filtered to
// entries carrying every tag in tagFilter and sorted by the given quote
// metric ("price", "per", "pbr", "roe", "dividend"). Entries missing the sort
// metric order last, matching how a human scans the sheet.
func (s *WatchlistService) List(ctx context.Context, sortKey string, ascending bool, tagFilter []string) ([]WatchlistEntryView, error) {
	entries, err := s.watchlist.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := []WatchlistEntryView{}
	for _, e := range entries {
		if !e.HasAllTags(tagFilter) {
			continue
		}
		view := WatchlistEntryView{WatchlistEntry: e}
		view.IRSearcherLink, view.IRBankLink = symbol.ResearchLinks(e.Code)
		views = append(views, view)
	}

	if sortKey != "" {
		sort.SliceStable(views, func(i, j int) bool {
			a := sortMetric(views[i].WatchlistEntry, sortKey)
			b := sortMetric(views[j].WatchlistEntry, sortKey)
			switch {
			case a == nil && b == nil:
				return false
			case a == nil:
				return false
			case b == nil:
				return true
			case ascending:
				return a.LessThan(*b)
			default:
				return a.GreaterThan(*b)
			}
		})
	}
	return views, nil
}

// Tags returns the sorted set of every tag used on the watchlist.
func (s *WatchlistService) Tags(ctx context.Context) ([]string, error) {
	entries, err := s.watchlist.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, e := range entries {
		for _, tag := range strings.Fields(symbol.NormalizeTags(e.Tags)) {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// RefreshAll re-quotes every entry with bounded concurrency. Fields the fresh
// quote does not carry keep their previous values; a rate-limited refresh
// must not blank out the sheet. Returns the number of entries that received
// at least one updated field.
func (s *WatchlistService) RefreshAll(ctx context.Context) (int, error) {
	entries, err := s.watchlist.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	quotes := make([]model.Quote, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteFetchConcurrency)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			quotes[i] = s.quotes.Lookup(gctx, e.Code)
			return nil
		})
	}
	_ = g.Wait()

	updated := 0
	for i := range entries {
		if merged := mergeQuote(&entries[i], quotes[i]); merged {
			updated++
		}
	}
	if err := s.watchlist.ReplaceAll(ctx, entries); err != nil {
		return 0, err
	}
	return updated, nil
}

// mergeQuote copies present quote fields onto the entry, reporting whether
// anything changed hands.
func mergeQuote(entry *model.WatchlistEntry, quote model.Quote) bool {
	merged := false
	if quote.DisplayName != "" {
		entry.Name = quote.DisplayName
		merged = true
	}
	if quote.Price != nil {
		entry.Price = quote.Price
		merged = true
	}
	if quote.PER != nil {
		entry.PER = quote.PER
		merged = true
	}
	if quote.PBR != nil {
		entry.PBR = quote.PBR
		merged = true
	}
	if quote.ROEPct != nil {
		entry.ROEPct = quote.ROEPct
		merged = true
	}
	if quote.DividendYield != nil {
		entry.Dividend = quote.DividendYield
		merged = true
	}
	return merged
}

func sortMetric(e model.WatchlistEntry, key string) *decimal.Decimal {
	switch key {
	case "price":
		return e.Price
	case "per":
		return e.PER
	case "pbr":
		return e.PBR
	case "roe":
		return e.ROEPct
	case "dividend":
		return e.Dividend
	case "target":
		return e.TargetPrice
	default:
		return nil
	}
}
