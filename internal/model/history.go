package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NetWorthPoint represents one row of the daily net-worth history. The engine
// enforces at most one point per calendar day; the store itself asserts
// nothing.
type NetWorthPoint struct {
	Date             time.Time       `json:"date"`
	TotalAsset       decimal.Decimal `json:"totalAsset"`
	TotalPnL         decimal.Decimal `json:"totalPnl"`
	TotalLookThrough decimal.Decimal `json:"totalLookThrough"`
}

// QuarterlySnapshotRow represents one instrument's valuation row in a
// quarterly snapshot batch. The quarter key ("2025-Q1") is embedded in the
// TaggedDate cell rather than stored as its own column; the recorder dedups a
// quarter by scanning existing rows for that key.
type QuarterlySnapshotRow struct {
	TaggedDate string           `json:"taggedDate"`
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	PER        *decimal.Decimal `json:"per,omitempty"`
	PBR        *decimal.Decimal `json:"pbr,omitempty"`
	ROEPct     *decimal.Decimal `json:"roePct,omitempty"`
}

// QuarterKey returns the "<year>-Q<quarter>" tag for a date.
func QuarterKey(t time.Time) string {
	quarter := (int(t.Month()) + 2) / 3
	return fmt.Sprintf("%d-Q%d", t.Year(), quarter)
}
