// Package speech mints short-lived client tokens for the browser's voice
// interview mode. The vendor API key stays server-side; clients only ever
// see an ephemeral token.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

// ErrNotConfigured means no vendor API key is set; voice mode is disabled.
var ErrNotConfigured = fmt.Errorf("speech provider is not configured")

// Token is an ephemeral client credential.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Minter requests ephemeral tokens from the vendor.
type Minter struct {
	cfg config.SpeechConfig
	hc  *http.Client
	log *logger.Logger
}

func NewMinter(cfg config.SpeechConfig, log *logger.Logger) *Minter {
	return &Minter{
		cfg: cfg,
		hc:  &http.Client{Timeout: 10 * time.Second},
		log: log.With("component", "speech"),
	}
}

// Enabled reports whether voice mode can mint tokens at all.
func (m *Minter) Enabled() bool {
	return m.cfg.APIKey != ""
}

type mintRequest struct {
	TTLSeconds int `json:"ttl_seconds"`
}

type mintResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Mint exchanges the server API key for a short-lived client token.
func (m *Minter) Mint(ctx context.Context) (*Token, error) {
	if !m.Enabled() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(mintRequest{TTLSeconds: int(m.cfg.TokenTTL.Seconds())})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mint speech token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("speech token endpoint returned %d", resp.StatusCode)
	}

	var out mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode speech token: %w", err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("speech token endpoint returned empty token")
	}

	expires := out.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().UTC().Add(m.cfg.TokenTTL)
	}
	return &Token{Value: out.Token, ExpiresAt: expires}, nil
}
