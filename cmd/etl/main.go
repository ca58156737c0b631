package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/gsod-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/gsod-etl/internal/adapter/kafka"
	"github.com/couchcryptid/gsod-etl/internal/archive"
	"github.com/couchcryptid/gsod-etl/internal/config"
	"github.com/couchcryptid/gsod-etl/internal/observability"
	"github.com/couchcryptid/gsod-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	fetcher := archive.NewCachedFetcher(
		archive.NewHTTPFetcher(cfg.FetchTimeout, metrics, logger),
		cfg.FetchCacheSize,
		metrics,
	)
	client := archive.NewClient(fetcher, cfg.BaseURL, cfg.StationsURL, logger)

	targets, err := pipeline.ExpandStationYears(cfg.Stations, cfg.StartYear, cfg.EndYear)
	if err != nil {
		logger.Error("invalid station configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("ingest planned",
		"stations", len(cfg.Stations),
		"start_year", cfg.StartYear,
		"end_year", cfg.EndYear,
		"archives", len(targets),
	)

	extractor := pipeline.NewArchiveExtractor(client, targets, logger)
	transformer := pipeline.NewSummaryTransformer()
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(extractor, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline. The run is finite: once every configured
	// station-year has been ingested the service shuts itself down.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
		stop()
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
