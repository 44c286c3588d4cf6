// Package namemaster resolves official instrument display names from an
// external security-master endpoint. The resolver is optional: when no
// endpoint is configured, or when the API token is missing from settings,
// resolution returns the empty string and callers fall back to whatever
// name they already have.
package namemaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/repository"
	"github.com/kabutools/kabu-ledger/internal/secrets"
	"github.com/kabutools/kabu-ledger/internal/symbol"
)

// Resolver queries the name-master API for the display name of a local
// security code. The API token lives encrypted in the settings table and is
// decrypted on demand, so rotating it does not require a restart.
type Resolver struct {
	httpClient *http.Client
	endpoint   string
	settings   *repository.SettingsRepository
	codec      *secrets.Codec
}

// NewResolver creates a resolver for the given endpoint. An empty endpoint
// yields a disabled resolver.
func NewResolver(endpoint string, settings *repository.SettingsRepository, codec *secrets.Codec) *Resolver {
	return &Resolver{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   endpoint,
		settings:   settings,
		codec:      codec,
	}
}

// Enabled reports whether an endpoint is configured.
func (r *Resolver) Enabled() bool {
	return r.endpoint != ""
}

type nameResponse struct {
	Name string `json:"name"`
}

// ResolveName returns the official name for a canonical code, or "" when the
// resolver is disabled or the lookup fails. Lookup failures are logged and
// swallowed; a missing name never blocks a trade.
func (r *Resolver) ResolveName(ctx context.Context, code string) string {
	if !r.Enabled() {
		return ""
	}

	token, err := r.token(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSettingNotFound) {
			log.Printf("namemaster: token unavailable: %v", err)
		}
		return ""
	}

	url := fmt.Sprintf("%s/v1/securities/%s", r.endpoint, symbol.ZeroPad(symbol.Bare(code), 4))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Printf("namemaster: lookup %s: %v", code, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var body nameResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.Name
}

// SetToken encrypts and stores the API token in settings.
func (r *Resolver) SetToken(ctx context.Context, plaintext string) error {
	sealed, err := r.codec.Encrypt(plaintext)
	if err != nil {
		return err
	}
	return r.settings.Set(ctx, repository.SettingNameMasterToken, sealed)
}

func (r *Resolver) token(ctx context.Context) (string, error) {
	sealed, err := r.settings.Get(ctx, repository.SettingNameMasterToken)
	if err != nil {
		return "", err
	}
	if !r.codec.Enabled() {
		// Without a key the stored value is treated as plaintext. Useful for
		// local setups that never configured encryption.
		return sealed, nil
	}
	return r.codec.Decrypt(sealed)
}
