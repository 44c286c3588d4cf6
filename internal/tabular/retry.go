package tabular

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
)

// DefaultAttempts and DefaultBackoff match the reference deployment: three
// tries with a fixed five-second pause between them.
const (
	DefaultAttempts = 3
	DefaultBackoff  = 5 * time.Second
)

// RetryStore wraps another Store with bounded retry. Only failures classified
// as transient are retried; permanent errors and retry exhaustion propagate to
// the caller un-swallowed. This is the sole mitigation for backend
// unavailability; it does not resolve concurrent-writer races, which the
// storage model accepts as last-writer-wins.
type RetryStore struct {
	inner    Store
	attempts int
	backoff  time.Duration
}

// NewRetryStore wraps inner. Non-positive attempts or backoff fall back to the
// defaults.
func NewRetryStore(inner Store, attempts int, backoff time.Duration) *RetryStore {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &RetryStore{inner: inner, attempts: attempts, backoff: backoff}
}

// ReadAll reads the table, retrying transient failures.
func (s *RetryStore) ReadAll(ctx context.Context, table string) ([][]string, error) {
	var rows [][]string
	err := s.do(ctx, table, func() error {
		var err error
		rows, err = s.inner.ReadAll(ctx, table)
		return err
	})
	return rows, err
}

// OverwriteAll writes the table, retrying transient failures.
func (s *RetryStore) OverwriteAll(ctx context.Context, table string, rows [][]string) error {
	return s.do(ctx, table, func() error {
		return s.inner.OverwriteAll(ctx, table, rows)
	})
}

func (s *RetryStore) do(ctx context.Context, table string, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, apperrors.ErrTransientStore) {
			return lastErr
		}
		if attempt == s.attempts {
			break
		}
		log.Printf("transient failure on table %s (attempt %d/%d), retrying in %s: %v",
			table, attempt, s.attempts, s.backoff, lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff):
		}
	}
	return fmt.Errorf("table %s: retries exhausted after %d attempts: %w", table, s.attempts, lastErr)
}
