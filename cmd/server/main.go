package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gundeep08/option-premium-analyzer/internal/config"
	"github.com/gundeep08/option-premium-analyzer/internal/database"
	"github.com/gundeep08/option-premium-analyzer/internal/query"
	"github.com/gundeep08/option-premium-analyzer/internal/server"
	"github.com/gundeep08/option-premium-analyzer/internal/storage"
	"github.com/gundeep08/option-premium-analyzer/internal/version"
	"github.com/gundeep08/option-premium-analyzer/internal/warehouse"
)

func main() {
	configPath := flag.String("config", "configs/analyzer.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The warehouse answers queries when enabled; otherwise the batch
	// store is scanned directly.
	var engine query.Engine
	if cfg.Warehouse.Enabled {
		logger.Info("connecting to warehouse",
			"host", cfg.Warehouse.DB.Host,
			"database", cfg.Warehouse.DB.Name,
		)
		pool, err := database.Connect(ctx, cfg.Warehouse.DB)
		if err != nil {
			logger.Error("failed to connect to warehouse", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		wh, err := warehouse.New(ctx, pool, logger)
		if err != nil {
			logger.Error("failed to prepare warehouse", "error", err)
			os.Exit(1)
		}
		engine = wh
	} else {
		store, err := storage.NewFSStore(cfg.Storage.Root)
		if err != nil {
			logger.Error("failed to open batch store", "error", err, "root", cfg.Storage.Root)
			os.Exit(1)
		}
		engine = query.NewStoreEngine(store, cfg.Storage.Prefix, logger)
	}

	srv := server.New(cfg.Server, engine, logger)

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
