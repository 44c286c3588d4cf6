package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WatchlistEntry represents one row of the watchlist table. Quote-derived
// fields (Price through Dividend) are pointers: a missing quote leaves them
// nil rather than zero, and a refresh that returns no data keeps the previous
// values. Shikiho counts how many times the code was looked up in the
// quarterly handbook; adding an already-listed code bumps it by one.
type WatchlistEntry struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	PER         *decimal.Decimal `json:"per,omitempty"`
	PBR         *decimal.Decimal `json:"pbr,omitempty"`
	ROEPct      *decimal.Decimal `json:"roePct,omitempty"`
	Dividend    *decimal.Decimal `json:"dividend,omitempty"`
	Shikiho     int64            `json:"shikiho"`
	Tags        string           `json:"tags"`
	Memo        string           `json:"memo"`
	TargetPrice *decimal.Decimal `json:"targetPrice,omitempty"`
}

// HasAllTags reports whether the entry carries every tag in the filter.
func (e WatchlistEntry) HasAllTags(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	have := make(map[string]bool)
	for _, t := range splitTags(e.Tags) {
		have[t] = true
	}
	for _, t := range tags {
		if !have[t] {
			return false
		}
	}
	return true
}

func splitTags(tags string) []string {
	return strings.Fields(strings.ReplaceAll(tags, "　", " "))
}
