// Package main provides the entry point for the showmarks MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/showmarks/internal/catalog"
	"github.com/raphaelgruber/showmarks/internal/config"
	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/server"
	"github.com/raphaelgruber/showmarks/internal/service"
	"github.com/raphaelgruber/showmarks/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg)
	defer cleanup()

	logger.Info("showmarks-mcp starting",
		"version", version,
		"data", cfg.DataFile,
		"watch", cfg.WatchData,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load catalog
	collector := metrics.NewCollector()
	store, err := catalog.NewStore(cfg.DataFile, logger, catalog.WithLoadHook(collector.Hook(metrics.OpCatalogLoad)))
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

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

	// Create and setup server
	srv := server.New(version, logger)
	srv.Setup()

	// Register tools
	deps := &tools.Dependencies{
		Browse:      service.NewBrowseService(store, collector, logger),
		Logger:      logger,
		DefaultSort: cfg.DefaultSort,
	}
	tools.RegisterAll(srv.MCPServer(), deps)
	logger.Info("tools registered", "count", tools.ToolCount)

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
