// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string
	DBPath          string
	CatalogBaseURL  string
	CatalogLanguage string
	CatalogAPIKey   string
	ValidateTimeout time.Duration
	SessionTTL      time.Duration
}

// Load reads configuration from environment variables and returns a
// validated Config. WATCHDECK_CATALOG_API_KEY is the fallback key used for
// anonymous catalog browsing; it is optional, and without it the catalog
// is reachable only after login. Optional variables with defaults:
// WATCHDECK_LISTEN_ADDR (127.0.0.1:8080), WATCHDECK_DB_PATH (watchdeck.db),
// WATCHDECK_CATALOG_BASE_URL (https://api.themoviedb.org/3),
// WATCHDECK_CATALOG_LANGUAGE (en-US), WATCHDECK_VALIDATE_TIMEOUT (10s),
// WATCHDECK_SESSION_TTL (24h).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("WATCHDECK_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "watchdeck.db"
	if v, ok := os.LookupEnv("WATCHDECK_DB_PATH"); ok {
		dbPath = v
	}

	baseURL := "https://api.themoviedb.org/3"
	if v, ok := os.LookupEnv("WATCHDECK_CATALOG_BASE_URL"); ok {
		baseURL = v
	}

	language := "en-US"
	if v, ok := os.LookupEnv("WATCHDECK_CATALOG_LANGUAGE"); ok {
		language = v
	}

	validateTimeout := 10 * time.Second
	if v, ok := os.LookupEnv("WATCHDECK_VALIDATE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("WATCHDECK_VALIDATE_TIMEOUT has invalid duration %q: %w", v, err)
		}
		validateTimeout = parsed
	}

	sessionTTL := 24 * time.Hour
	if v, ok := os.LookupEnv("WATCHDECK_SESSION_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("WATCHDECK_SESSION_TTL has invalid duration %q: %w", v, err)
		}
		sessionTTL = parsed
	}

	return &Config{
		ListenAddr:      listenAddr,
		DBPath:          dbPath,
		CatalogBaseURL:  baseURL,
		CatalogLanguage: language,
		CatalogAPIKey:   os.Getenv("WATCHDECK_CATALOG_API_KEY"),
		ValidateTimeout: validateTimeout,
		SessionTTL:      sessionTTL,
	}, nil
}
