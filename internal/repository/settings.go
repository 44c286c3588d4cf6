package repository

import (
	"context"
	"fmt"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/tabular"
)

var settingsHeader = []string{"key", "value"}

// Well-known settings keys.
const (
	// SettingNameMasterToken holds the fernet-encrypted API token for the
	// name-master lookup service.
	SettingNameMasterToken = "name_master_token"
)

// SettingsRepository provides key/value access to the Settings table.
type SettingsRepository struct {
	store tabular.Store
}

// NewSettingsRepository creates a new SettingsRepository on the given store.
func NewSettingsRepository(store tabular.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the stored value for key, or ErrSettingNotFound.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	rows, err := r.store.ReadAll(ctx, tabular.TableSettings)
	if err != nil {
		return "", fmt.Errorf("read settings: %w", err)
	}
	if err := checkHeader(rows, settingsHeader); err != nil {
		return "", err
	}
	for _, row := range dataRows(rows) {
		if len(row) >= 2 && row[0] == key {
			return row[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrSettingNotFound, key)
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	rows, err := r.store.ReadAll(ctx, tabular.TableSettings)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := checkHeader(rows, settingsHeader); err != nil {
		return err
	}
	if len(rows) == 0 {
		rows = [][]string{settingsHeader}
	}

	replaced := false
	for i, row := range rows[1:] {
		if len(row) >= 2 && row[0] == key {
			rows[i+1] = []string{key, value}
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, []string{key, value})
	}
	if err := r.store.OverwriteAll(ctx, tabular.TableSettings, rows); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
