package tess_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/darkridge/nightsky-etl/internal/adapter/tess"
	"github.com/darkridge/nightsky-etl/internal/config"
	"github.com/darkridge/nightsky-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPreambleLines = 3

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLoader(t *testing.T, dir string) *tess.Loader {
	t.Helper()
	cfg := &config.Config{
		DataDir:       dir,
		FilePattern:   "stars927_2024-*.dat",
		PreambleLines: testPreambleLines,
	}
	return tess.NewLoader(cfg, discardLogger(), observability.NewMetricsForTesting())
}

// writeLogFile writes a .dat fixture with the standard preamble shape
// followed by the given rows.
func writeLogFile(t *testing.T, dir, name string, rows ...string) {
	t.Helper()
	var b strings.Builder
	for i := 0; i < testPreambleLines; i++ {
		fmt.Fprintf(&b, "# preamble line %d\n", i+1)
	}
	for _, row := range rows {
		b.WriteString(row + "\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
}

func row(ts string, skyTemp, msas float64, seq int) string {
	return fmt.Sprintf("%s;local;12.0;%.1f;2800.0;%.2f;20.35;%d", ts, skyTemp, msas, seq)
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "stars927_2024-01-15.dat",
		row("2024-01-15T22:30:05.000", -4.5, 19.62, 1),
		row("2024-01-15T23:30:05.000", -4.8, 19.71, 2),
		row("2024-01-16T01:30:05.000", -5.0, 19.80, 3),
	)

	readings, err := newLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 3)

	first := readings[0]
	assert.Equal(t, time.Date(2024, time.January, 15, 22, 30, 5, 0, time.UTC), first.Timestamp)
	assert.Equal(t, "local", first.LocalTime)
	assert.Equal(t, 12.0, first.EnclosureTemp)
	assert.Equal(t, -4.5, first.SkyTemp)
	assert.Equal(t, 2800.0, first.Frequency)
	assert.Equal(t, 19.62, first.MSAS)
	assert.Equal(t, 20.35, first.ZeroPoint)
	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, 22, first.Hour)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), first.UTCDate)

	// The post-midnight sample derives the next calendar date.
	assert.Equal(t, time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC), readings[2].UTCDate)
	assert.Equal(t, 1, readings[2].Hour)
}

func TestLoad_MergesAllMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "stars927_2024-01-15.dat",
		row("2024-01-15T22:00:00.000", -4.5, 19.62, 1),
	)
	writeLogFile(t, dir, "stars927_2024-01-16.dat",
		row("2024-01-16T22:00:00.000", -3.1, 19.40, 1),
		row("2024-01-16T23:00:00.000", -3.3, 19.45, 2),
	)
	// Different instrument: must not match the pattern.
	writeLogFile(t, dir, "stars412_2024-01-15.dat",
		row("2024-01-15T22:00:00.000", -9.9, 21.00, 1),
	)

	readings, err := newLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, readings, 3)
	for _, r := range readings {
		assert.NotEqual(t, 21.00, r.MSAS, "non-matching file must be ignored")
	}
}

func TestLoad_SkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "stars927_2024-01-15.dat",
		row("2024-01-15T22:00:00.000", -4.5, 19.62, 1),
		"garbage;row",
		"2024-01-15 23:00:00;local;12.0;-4.5;2800.0;19.70;20.35;2", // missing 'T'
		row("2024-01-15T23:30:00.000", -4.7, 19.75, 3),
	)

	readings, err := newLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, 1, readings[0].Seq)
	assert.Equal(t, 3, readings[1].Seq)
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "stars927_2024-01-15.dat",
		row("2024-01-15T22:00:00.000", -4.5, 19.62, 1),
		"",
		row("2024-01-15T23:00:00.000", -4.6, 19.66, 2),
	)

	readings, err := newLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, readings, 2)
}

func TestLoad_MissingDirectory(t *testing.T) {
	loader := newLoader(t, filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	loader := newLoader(t, t.TempDir())
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, tess.ErrNoInputData)
}

func TestLoad_FilesWithOnlyPreamble(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "stars927_2024-01-15.dat")

	_, err := newLoader(t, dir).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, tess.ErrNoInputData)
}

func TestLoad_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "stars927_2024-01-15.dat",
		row("2024-01-15T22:00:00.000", -4.5, 19.62, 1),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLoader(t, dir).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
