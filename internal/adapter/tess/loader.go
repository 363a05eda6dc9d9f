// Package tess reads TESS photometer .dat log files from a local
// directory into the in-memory dataset. It is the ingestion side of the
// pipeline: discovery by filename pattern, preamble skip, row parsing.
package tess

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/darkridge/nightsky-etl/internal/config"
	"github.com/darkridge/nightsky-etl/internal/domain"
	"github.com/darkridge/nightsky-etl/internal/observability"
)

// ErrNoInputData is returned when discovery finds no files or parsing
// yields no readings. The service cannot start without data because the
// dashboard's date-range bounds would be undefined.
var ErrNoInputData = errors.New("no input data")

// Loader discovers and parses photometer log files.
// It implements pipeline.Loader.
type Loader struct {
	dir      string
	pattern  string
	preamble int
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewLoader creates a Loader for the configured data directory.
func NewLoader(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		dir:      cfg.DataDir,
		pattern:  cfg.FilePattern,
		preamble: cfg.PreambleLines,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads every matching file and returns the merged reading set in
// discovery order then in-file order. Duplicate timestamps across files
// are preserved; deduplication is the aggregator's concern. Malformed
// rows are skipped, logged, and counted — a single bad row must not
// take down an otherwise healthy instrument log.
func (l *Loader) Load(ctx context.Context) ([]domain.Reading, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, fmt.Errorf("data directory %s: %w", l.dir, err)
	}

	paths, err := filepath.Glob(filepath.Join(l.dir, l.pattern))
	if err != nil {
		return nil, fmt.Errorf("bad file pattern %q: %w", l.pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files matching %q in %s", ErrNoInputData, l.pattern, l.dir)
	}

	var readings []domain.Reading
	for _, path := range paths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fileReadings, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		l.metrics.FilesLoaded.Inc()
		l.logger.Info("file loaded", "path", path, "readings", len(fileReadings))
		readings = append(readings, fileReadings...)
	}

	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: %d files matched but contained no readings", ErrNoInputData, len(paths))
	}

	l.metrics.ReadingsLoaded.Add(float64(len(readings)))
	return readings, nil
}

// loadFile parses one log file: preamble lines are discarded, the rest
// are positional rows.
func (l *Loader) loadFile(path string) ([]domain.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var readings []domain.Reading
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= l.preamble {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reading, err := domain.ParseReading(line)
		if err != nil {
			l.metrics.MalformedRows.Inc()
			l.logger.Warn("skipping malformed row",
				"path", path,
				"line", lineNo,
				"error", err,
			)
			continue
		}
		readings = append(readings, reading)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return readings, nil
}
