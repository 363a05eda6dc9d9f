// Command validate performs an offline integrity check of a photometer
// data directory: it parses every matching file with the real loader
// schema and reports per-file row counts, malformed rows, and the
// nightly summaries the dashboard would plot over the full date range.
//
// Usage:
//
//	go run ./cmd/validate -dir data -pattern 'stars927_2024-*.dat'
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darkridge/nightsky-etl/internal/domain"
)

func main() {
	dir := flag.String("dir", "data", "data directory to validate")
	pattern := flag.String("pattern", "stars927_2024-*.dat", "filename pattern")
	preamble := flag.Int("preamble", 35, "preamble lines to skip per file")
	flag.Parse()

	if code := run(*dir, *pattern, *preamble); code != 0 {
		os.Exit(code)
	}
}

func run(dir, pattern string, preamble int) int {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: bad pattern: %v\n", err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: no files matching %q in %s\n", pattern, dir)
		return 1
	}

	fmt.Println("=== Photometer Data Validation ===")
	fmt.Println()

	var readings []domain.Reading
	totalMalformed := 0
	for _, path := range paths {
		parsed, malformed, err := validateFile(path, preamble)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", path, err)
			return 1
		}
		status := "OK"
		if malformed > 0 {
			status = fmt.Sprintf("%d malformed", malformed)
		}
		fmt.Printf("  %-40s %6d rows  [%s]\n", filepath.Base(path), len(parsed), status)
		readings = append(readings, parsed...)
		totalMalformed += malformed
	}

	fmt.Println()
	fmt.Printf("files: %d, readings: %d, malformed rows: %d\n", len(paths), len(readings), totalMalformed)

	minDate, maxDate, ok := domain.DateRange(readings)
	if !ok {
		fmt.Fprintln(os.Stderr, "FATAL: no readings parsed")
		return 1
	}
	fmt.Printf("date span: %s .. %s\n", minDate.Format(time.DateOnly), maxDate.Format(time.DateOnly))

	summaries := domain.NightlyAggregate(readings, minDate, maxDate)
	fmt.Printf("qualifying nights (cold, night-window): %d\n", len(summaries))
	for _, s := range summaries {
		fmt.Printf("  %s  msas=%.2f  sky_temp=%.1f°C  avg=%.2f°C\n",
			s.Date.Format(time.DateOnly), s.Reading.MSAS, s.Reading.SkyTemp, s.AvgSkyTemp)
	}

	if totalMalformed > 0 {
		fmt.Println()
		fmt.Printf("WARNING: %d malformed rows were skipped\n", totalMalformed)
	}
	return 0
}

func validateFile(path string, preamble int) ([]domain.Reading, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var readings []domain.Reading
	malformed := 0
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= preamble {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r, err := domain.ParseReading(line)
		if err != nil {
			malformed++
			fmt.Fprintf(os.Stderr, "  %s:%d: %v\n", filepath.Base(path), lineNo, err)
			continue
		}
		readings = append(readings, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return readings, malformed, nil
}
