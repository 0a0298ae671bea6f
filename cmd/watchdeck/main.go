package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/prometheus/client_golang/prometheus"

	sqliteadapter "github.com/ericfisherdev/watchdeck/internal/adapter/driven/sqlite"
	tmdbadapter "github.com/ericfisherdev/watchdeck/internal/adapter/driven/tmdb"
	httphandler "github.com/ericfisherdev/watchdeck/internal/adapter/driving/http"
	"github.com/ericfisherdev/watchdeck/internal/application"
	"github.com/ericfisherdev/watchdeck/internal/config"
	"github.com/ericfisherdev/watchdeck/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"catalog_base_url", cfg.CatalogBaseURL,
		"session_ttl", cfg.SessionTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the profile database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SessionTTL)
	watchlistStore := sqliteadapter.NewWatchlistRepo(db)
	validator := tmdbadapter.NewValidator(cfg.CatalogBaseURL, cfg.ValidateTimeout)

	// 6. Seed the key provider: a surviving session's cached key takes
	// effect immediately, otherwise anonymous browsing runs on the
	// configured fallback key (which may be empty).
	activeKey, err := credentialStore.ActiveKey(ctx)
	if err != nil {
		return err
	}
	keys := application.NewKeyProvider(cfg.CatalogAPIKey, activeKey)
	if activeKey != "" {
		slog.Info("restored catalog key from stored session")
	} else if cfg.CatalogAPIKey == "" {
		slog.Info("no fallback catalog key configured, catalog requires login")
	}

	catalog := tmdbadapter.NewClient(cfg.CatalogBaseURL, cfg.CatalogLanguage, keys)

	// 7. Metrics registry and collector.
	registry := prometheus.NewRegistry()
	recorder := metrics.NewCollector(registry)

	// 8. Application services.
	sessionSvc := application.NewSessionService(credentialStore, validator, keys, recorder, slog.Default())
	gate := application.NewAccessGate(credentialStore)
	watchlistSvc := application.NewWatchlistService(watchlistStore, recorder)

	// 9. HTTP driving adapter.
	handler := httphandler.NewHandler(sessionSvc, gate, watchlistSvc, catalog, slog.Default())
	mux := httphandler.NewServeMux(handler, registry, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("watchdeck started", "listen_addr", cfg.ListenAddr)

	// 10. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
