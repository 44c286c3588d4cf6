// Package repository translates between the tabular store's string rows and
// the application's typed models. Each repository owns one table's column
// layout; column order is part of the persistence contract because the
// backing store is schema-less and relies on header rows.
package repository

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
)

const dateLayout = "2006-01-02"

// checkHeader validates that a non-empty table starts with the expected
// header row. An empty table (never written) passes: the header is created on
// first write.
func checkHeader(rows [][]string, want []string) error {
	if len(rows) == 0 {
		return nil
	}
	header := rows[0]
	if len(header) != len(want) {
		return fmt.Errorf("%w: expected %d columns, found %d", apperrors.ErrSchemaMismatch, len(want), len(header))
	}
	for i := range want {
		if header[i] != want[i] {
			return fmt.Errorf("%w: column %d is %q, expected %q", apperrors.ErrSchemaMismatch, i, header[i], want[i])
		}
	}
	return nil
}

// dataRows strips the header row.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func parseDecimal(cell, column string) (decimal.Decimal, error) {
	if cell == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad %s value %q", apperrors.ErrPermanentStore, column, cell)
	}
	return d, nil
}

// parseOptionalDecimal keeps the distinction between an absent value and
// zero: an empty cell decodes to nil, never to 0.
func parseOptionalDecimal(cell, column string) (*decimal.Decimal, error) {
	if cell == "" {
		return nil, nil
	}
	d, err := parseDecimal(cell, column)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatOptionalDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func parseInt(cell, column string) (int64, error) {
	if cell == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s value %q", apperrors.ErrPermanentStore, column, cell)
	}
	return n, nil
}

func parseDate(cell, column string) (time.Time, error) {
	d, err := time.Parse(dateLayout, cell)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad %s value %q", apperrors.ErrPermanentStore, column, cell)
	}
	return d, nil
}
