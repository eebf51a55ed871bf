// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/usagelens/docs" // registers the swagger spec
	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/api"
	"github.com/tomtom215/usagelens/internal/cache"
	"github.com/tomtom215/usagelens/internal/charts"
	"github.com/tomtom215/usagelens/internal/config"
	"github.com/tomtom215/usagelens/internal/database"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
	"github.com/tomtom215/usagelens/internal/pages"
	"github.com/tomtom215/usagelens/internal/supervisor"
	"github.com/tomtom215/usagelens/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", version).
		Str("dataset", cfg.Dataset.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting UsageLens")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	loadStart := time.Now()
	table, err := db.LoadCSV(context.Background(), cfg.Dataset.Path)
	if err != nil {
		// Close before the fatal exit skips the deferred close.
		_ = db.Close()
		logging.Fatal().Err(err).Str("path", cfg.Dataset.Path).Msg("Failed to load dataset")
	}
	info := table.Info()
	metrics.SetDataset(info.Rows, info.Users, time.Since(loadStart))
	metrics.SetAppInfo(version)

	engine, err := analytics.NewEngine(table, cache.NewLRU(cfg.Analytics.CacheCapacity), analytics.Options{
		ZeroRequestPolicy: analytics.RatioPolicy(cfg.Analytics.ZeroRequestPolicy),
		TopSpenders:       cfg.Analytics.TopSpenders,
	})
	if err != nil {
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to create analytics engine")
	}

	registry := charts.NewRegistry(engine, db, charts.Options{ScatterSampleLimit: cfg.Analytics.ScatterSampleLimit})
	controller, err := pages.NewController(engine, registry, nil)
	if err != nil {
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to load page layout")
	}

	handler := api.NewHandler(engine, registry, controller, db, cfg)
	handler.SetVersion(version)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Dataset.Watch {
		watcher := services.NewDatasetWatcher(cfg.Dataset.Path)
		handler.SetStalenessReporter(watcher)
		tree.AddDataService(watcher)
	}

	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// ServeBackground delivers exactly one value and never closes the channel.
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
