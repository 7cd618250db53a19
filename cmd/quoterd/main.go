package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/options-quoter/internal/config"
	"github.com/rickgao/options-quoter/internal/engine"
	"github.com/rickgao/options-quoter/internal/hedge"
	"github.com/rickgao/options-quoter/internal/journal"
	"github.com/rickgao/options-quoter/internal/quote"
	"github.com/rickgao/options-quoter/internal/venue"
	"github.com/rickgao/options-quoter/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/quoterd.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting quoter",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"venue_url", cfg.Venue.RestURL,
		"underlying", cfg.Quoting.UnderlyingID,
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

	// Create venue client
	client := venue.NewClient(
		cfg.Venue.RestURL,
		cfg.Venue.APIKey,
		venue.WithLogger(logger),
		venue.WithTimeout(cfg.Venue.Timeout),
		venue.WithRetries(cfg.Venue.MaxRetries, cfg.Venue.RetryBackoff),
	)

	var exchange venue.Exchange = client

	// Optional WebSocket book stream for the reference price
	if cfg.Venue.StreamURL != "" {
		stream := venue.NewBookStream(
			venue.DefaultStreamConfig(cfg.Venue.StreamURL, cfg.Venue.APIKey),
			logger,
		)
		if err := stream.Connect(ctx); err != nil {
			logger.Error("failed to connect book stream", "error", err)
			os.Exit(1)
		}
		defer stream.Close()

		if err := stream.Subscribe([]string{cfg.Quoting.UnderlyingID}); err != nil {
			logger.Error("failed to subscribe to book stream", "error", err)
			os.Exit(1)
		}

		exchange = venue.NewStreamedExchange(client, stream)
		logger.Info("book stream connected", "url", cfg.Venue.StreamURL)
	}

	// Optional fill and exposure journal
	var (
		tradeSink    quote.TradeSink
		exposureSink hedge.ExposureSink
	)
	if cfg.Journal.Enabled {
		logger.Info("connecting to journal database",
			"host", cfg.Journal.DB.Host,
			"port", cfg.Journal.DB.Port,
			"database", cfg.Journal.DB.Name,
		)

		pool, err := journal.Connect(ctx, cfg.Journal.DB)
		if err != nil {
			logger.Error("failed to connect to journal database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		jnl := journal.New(journal.Config{
			InstanceID:    cfg.Instance.ID,
			BatchSize:     cfg.Journal.BatchSize,
			FlushInterval: cfg.Journal.FlushInterval,
			BufferSize:    cfg.Journal.BufferSize,
		}, pool, logger)

		if err := jnl.Start(ctx); err != nil {
			logger.Error("failed to start journal", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			jnl.Stop(shutdownCtx)
		}()

		tradeSink = jnl
		exposureSink = jnl
		logger.Info("journal started")
	}

	// Assemble the trading engine
	quotes := quote.NewManager(exchange, tradeSink, logger)
	hedger := hedge.NewHedger(exchange, hedge.Params{
		InterestRate:  cfg.Pricing.InterestRate,
		Volatility:    cfg.Pricing.Volatility,
		PositionLimit: cfg.Quoting.PositionLimit,
	}, exposureSink, logger)

	eng := engine.New(engine.Config{
		UnderlyingID:     cfg.Quoting.UnderlyingID,
		InterestRate:     cfg.Pricing.InterestRate,
		Volatility:       cfg.Pricing.Volatility,
		Credit:           cfg.Quoting.Credit,
		TargetVolume:     cfg.Quoting.TargetVolume,
		PositionLimit:    cfg.Quoting.PositionLimit,
		TickSize:         cfg.Quoting.TickSize,
		HedgeReferenceID: cfg.Hedging.ReferenceID,
		InstrumentDelay:  cfg.Loop.InstrumentDelay,
		CycleDelay:       cfg.Loop.CycleDelay,
		RetryDelay:       cfg.Loop.RetryDelay,
	}, exchange, quotes, hedger, logger)

	if err := eng.Start(ctx); err != nil {
		logger.Error("failed to start engine", "error", err)
		os.Exit(1)
	}

	logger.Info("quoter running", "instance_id", cfg.Instance.ID)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := eng.Stop(shutdownCtx); err != nil {
		logger.Error("engine shutdown failed", "error", err)
	}

	logger.Info("quoter stopped")
}
