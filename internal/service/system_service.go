package service

import (
	"context"

	"github.com/kabutools/kabu-ledger/internal/tabular"
	"github.com/kabutools/kabu-ledger/internal/version"
)

// SystemService handles system-related operations.
type SystemService struct {
	store tabular.Store
}

// NewSystemService creates a new SystemService.
func NewSystemService(store tabular.Store) *SystemService {
	return &SystemService{store: store}
}

// CheckHealth verifies that the backing store is reachable by reading the
// settings table, the cheapest table in the set.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	_, err := s.store.ReadAll(ctx, tabular.TableSettings)
	return err
}

// CheckVersion returns the build version.
func (s *SystemService) CheckVersion() string {
	return version.Version
}
