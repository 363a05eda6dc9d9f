package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/darkridge/nightsky-etl/internal/adapter/http"
	kafkaadapter "github.com/darkridge/nightsky-etl/internal/adapter/kafka"
	"github.com/darkridge/nightsky-etl/internal/adapter/tess"
	"github.com/darkridge/nightsky-etl/internal/config"
	"github.com/darkridge/nightsky-etl/internal/observability"
	"github.com/darkridge/nightsky-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Summary export is feature-flagged via KAFKA_BROKERS / EXPORT_ENABLED.
	var exporter pipeline.Exporter
	var kafkaWriter *kafkaadapter.Writer
	if cfg.ExportEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		exporter = kafkaWriter
		metrics.ExportEnabled.Set(1)
		logger.Info("summary export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("summary export disabled")
	}

	loader := tess.NewLoader(cfg, logger, metrics)
	svc := pipeline.New(loader, exporter, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the dataset before serving; without data the dashboard's
	// date-range bounds are undefined, so any load failure is fatal.
	if err := svc.Load(ctx); err != nil {
		logger.Error("failed to load dataset", "data_dir", cfg.DataDir, "pattern", cfg.FilePattern, "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
