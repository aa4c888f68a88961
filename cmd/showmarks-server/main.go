// Package main provides the HTTP server for showmarks.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/showmarks/internal/api"
	"github.com/raphaelgruber/showmarks/internal/catalog"
	"github.com/raphaelgruber/showmarks/internal/config"
	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/service"
)

func main() {
	// Parse flags
	dataFile := flag.String("data", "", "catalog file (overrides SHOWMARKS_DATA)")
	watch := flag.Bool("watch", false, "reload the catalog when the file changes")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *watch {
		cfg.WatchData = true
	}

	// Initialize logging
	logger, cleanup := config.SetupLogger(cfg)
	defer cleanup()

	logger.Info("starting showmarks-server", "port", cfg.ServerPort, "data", cfg.DataFile)

	// Load catalog
	collector := metrics.NewCollector()
	store, err := catalog.NewStore(cfg.DataFile, logger, catalog.WithLoadHook(collector.Hook(metrics.OpCatalogLoad)))
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchData {
		watcher, err := catalog.NewWatcher(store, logger, catalog.DefaultDebounce)
		if err != nil {
			logger.Error("failed to watch catalog", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("catalog watcher stopped", "error", err)
			}
		}()
	}

	svc := service.NewBrowseService(store, collector, logger)
	srv, err := api.New(svc, logger, api.Options{
		CORSOrigins: cfg.CORSOrigins,
		DefaultSort: cfg.DefaultSort,
	})
	if err != nil {
		logger.Error("failed to create api server", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("REST API available", "url", fmt.Sprintf("http://localhost:%s/api/v1/episodes", cfg.ServerPort))
		logger.Info("live search available", "url", fmt.Sprintf("ws://localhost:%s/ws", cfg.ServerPort))
		logger.Info("metrics available", "url", fmt.Sprintf("http://localhost:%s/metrics", cfg.ServerPort))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
