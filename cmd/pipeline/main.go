package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gundeep08/option-premium-analyzer/internal/api"
	"github.com/gundeep08/option-premium-analyzer/internal/config"
	"github.com/gundeep08/option-premium-analyzer/internal/database"
	"github.com/gundeep08/option-premium-analyzer/internal/discovery"
	"github.com/gundeep08/option-premium-analyzer/internal/fetcher"
	"github.com/gundeep08/option-premium-analyzer/internal/pipeline"
	"github.com/gundeep08/option-premium-analyzer/internal/scoring"
	"github.com/gundeep08/option-premium-analyzer/internal/storage"
	"github.com/gundeep08/option-premium-analyzer/internal/version"
	"github.com/gundeep08/option-premium-analyzer/internal/warehouse"
)

func main() {
	configPath := flag.String("config", "configs/analyzer.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting pipeline",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Populate the environment before config expansion resolves
	// ${POLYGON_API_KEY} and friends.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"tickers", len(cfg.Tickers),
		"provider_url", cfg.Provider.BaseURL,
		"rate_interval", cfg.Provider.RateInterval,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create provider client. All provider calls share one interval
	// limiter so a whole run stays inside the free-tier budget.
	limiter := api.NewIntervalLimiter(cfg.Provider.RateInterval, cfg.Provider.RateBurst)
	client := api.NewClient(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Provider.Timeout),
		api.WithRetries(cfg.Provider.MaxRetries, cfg.Provider.RetryBackoff),
		api.WithRateLimiter(limiter),
		api.WithBreaker("polygon"),
	)

	// Open the batch store
	store, err := storage.NewFSStore(cfg.Storage.Root)
	if err != nil {
		logger.Error("failed to open batch store", "error", err, "root", cfg.Storage.Root)
		os.Exit(1)
	}
	writer := storage.NewBatchWriter(store, cfg.Storage.Prefix, logger)

	// Optional warehouse mirror
	var loader pipeline.BatchLoader
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
		loader = wh
	}

	p := pipeline.New(
		discovery.New(client, cfg.Discovery, logger),
		fetcher.New(client, logger),
		scoring.NewSelector(cfg.Selection, logger),
		writer,
		loader,
		logger,
	)

	// Run logs its own completion summary.
	if _, err := p.Run(ctx, cfg.Tickers); err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}
}
