// Package tmdb implements the catalog-facing driven ports against a
// TMDB-compatible HTTP API.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KeyValidator = (*Validator)(nil)

// Validator checks a secret against the catalog's configuration endpoint.
// Any 2xx response means the key is accepted. Non-2xx responses, transport
// failures, and timeouts all report false; the caller cannot distinguish a
// bad key from an unreachable validator.
type Validator struct {
	baseURL string
	http    *http.Client
}

// NewValidator creates a Validator for the given catalog base URL. timeout
// bounds the whole validation round trip; expiry counts as rejection.
func NewValidator(baseURL string, timeout time.Duration) *Validator {
	return &Validator{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Validate reports whether secret is a currently-accepted catalog API key.
// An empty or whitespace-only secret fails fast without a network call.
func (v *Validator) Validate(ctx context.Context, secret string) bool {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return false
	}

	endpoint := fmt.Sprintf("%s/configuration?api_key=%s", v.baseURL, url.QueryEscape(trimmed))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Debug("build key validation request", "error", err)
		return false
	}

	resp, err := v.http.Do(req)
	if err != nil {
		slog.Debug("key validation transport failure", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
