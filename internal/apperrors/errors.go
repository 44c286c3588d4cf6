// Package apperrors defines the sentinel errors used across the application.
// Errors are grouped by category so callers can distinguish business-rule
// rejections (report to the user, nothing was written) from store failures
// (retried or escalated by the persistence layer).
package apperrors

import "errors"

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business
// rules. No table is written when one of these is returned.
var (
	// ErrInsufficientShares indicates that a sell trade cannot be completed
	// because the portfolio does not hold enough shares of the instrument.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInvalidTradeInput indicates that a trade request failed validation
	// (non-positive price or shares, empty instrument code).
	ErrInvalidTradeInput = errors.New("invalid trade input")

	// ErrHoldingNotFound indicates that no holding exists for the given code.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrWatchlistEntryNotFound indicates that no watchlist entry exists for the given code.
	ErrWatchlistEntryNotFound = errors.New("watchlist entry not found")

	// ErrSettingNotFound indicates that a settings key has no stored value.
	ErrSettingNotFound = errors.New("setting not found")
)

// Store errors classify failures of the tabular backend. The retry wrapper
// retries transient errors only; everything else escalates immediately.
var (
	// ErrTransientStore indicates a temporary backend failure (lock contention,
	// rate limiting, transient I/O). Safe to retry.
	ErrTransientStore = errors.New("transient store error")

	// ErrPermanentStore indicates a backend failure that will not resolve by
	// retrying (corrupt data, unreachable path, closed connection).
	ErrPermanentStore = errors.New("permanent store error")

	// ErrSchemaMismatch indicates that a table's header row does not match the
	// column layout this application expects.
	ErrSchemaMismatch = errors.New("table schema mismatch")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. Used by the HTTP layer as user-facing failure messages.
var (
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveCash      = errors.New("failed to retrieve cash balance")
	ErrFailedToRetrieveTrades    = errors.New("failed to retrieve trade log")
	ErrFailedToRetrieveHistory   = errors.New("failed to retrieve net worth history")
	ErrFailedToRetrieveSnapshots = errors.New("failed to retrieve quarterly snapshots")
	ErrFailedToRetrieveWatchlist = errors.New("failed to retrieve watchlist")

	ErrFailedToRecordTrade     = errors.New("failed to record trade")
	ErrFailedToUpdateCash      = errors.New("failed to update cash balance")
	ErrFailedToRecordHistory   = errors.New("failed to record history point")
	ErrFailedToRecordSnapshot  = errors.New("failed to record quarterly snapshot")
	ErrFailedToRebuildLedger   = errors.New("failed to rebuild ledger")
	ErrFailedToUpdateWatchlist = errors.New("failed to update watchlist")
	ErrFailedToRefreshQuotes   = errors.New("failed to refresh quotes")
)
