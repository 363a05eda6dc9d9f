// Package pipeline orchestrates the load-once ingestion flow and owns
// the immutable in-memory dataset that every aggregation query reads.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/darkridge/nightsky-etl/internal/domain"
	"github.com/darkridge/nightsky-etl/internal/observability"
)

// Loader reads the full photometer dataset from its source.
type Loader interface {
	Load(ctx context.Context) ([]domain.Reading, error)
}

// Exporter publishes computed nightly summaries to a downstream sink.
type Exporter interface {
	ExportBatch(ctx context.Context, summaries []domain.NightSummary) error
}

// Service owns the dataset and answers nightly-aggregation queries.
// After Load succeeds the readings slice is read-only shared state, so
// Nights and Range are safe to call from concurrent HTTP handlers
// without locking.
type Service struct {
	loader   Loader
	exporter Exporter // nil disables export
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool

	readings         []domain.Reading
	minDate, maxDate time.Time
}

// New creates a Service. Pass a nil exporter to disable the summary export.
func New(loader Loader, exporter Exporter, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		loader:   loader,
		exporter: exporter,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load runs the one-shot ingestion: read every file, build the dataset,
// and mark the service ready. Called once at startup; any error is
// fatal to the process. When an exporter is configured the full-range
// nightly summaries are published after the load as a best-effort side
// channel — an export failure is logged, not propagated, because the
// dashboard can serve from memory regardless.
func (s *Service) Load(ctx context.Context) error {
	start := time.Now()

	readings, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}

	minDate, maxDate, ok := domain.DateRange(readings)
	if !ok {
		return errors.New("loader returned no readings")
	}

	s.readings = readings
	s.minDate, s.maxDate = minDate, maxDate
	s.ready.Store(true)
	s.metrics.DatasetLoaded.Set(1)
	s.metrics.LoadDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("dataset loaded",
		"readings", len(readings),
		"min_date", minDate.Format(time.DateOnly),
		"max_date", maxDate.Format(time.DateOnly),
		"duration", time.Since(start),
	)

	s.export(ctx)
	return nil
}

// Nights recomputes the plot-ready table for the inclusive date range.
// Each call is a fresh, synchronous pass over the dataset; there is no
// incremental state between calls.
func (s *Service) Nights(start, end time.Time) []domain.NightSummary {
	begin := time.Now()
	summaries := domain.NightlyAggregate(s.readings, start, end)
	s.metrics.QueryDuration.Observe(time.Since(begin).Seconds())
	s.metrics.NightsReturned.Observe(float64(len(summaries)))
	return summaries
}

// Range returns the dataset's calendar-date bounds for the date picker.
func (s *Service) Range() (minDate, maxDate time.Time) {
	return s.minDate, s.maxDate
}

// CheckReadiness returns nil once the dataset has been loaded, or an
// error describing why the service cannot serve queries yet.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

func (s *Service) export(ctx context.Context) {
	if s.exporter == nil {
		return
	}

	summaries := s.Nights(s.minDate, s.maxDate)
	if len(summaries) == 0 {
		s.logger.Info("no qualifying nights to export")
		return
	}

	if err := s.exporter.ExportBatch(ctx, summaries); err != nil {
		s.logger.Warn("summary export failed", "error", err, "summaries", len(summaries))
		return
	}
	s.metrics.SummariesExported.Add(float64(len(summaries)))
	s.logger.Info("summaries exported", "count", len(summaries))
}
