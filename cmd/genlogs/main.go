// Command genlogs generates synthetic TESS photometer .dat files for
// demos and local runs. Rows are emitted through the real log format
// (35-line preamble, 8 semicolon-delimited fields) and verified with
// the actual domain parser so fixtures never drift from pipeline
// behavior.
//
// Usage:
//
//	go run ./cmd/genlogs -out data -instrument stars927 -start 2024-01-01 -nights 30
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darkridge/nightsky-etl/internal/domain"
)

const preambleLines = 35

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "output directory for generated .dat files")
	instrument := flag.String("instrument", "stars927", "instrument identifier used in filenames")
	startStr := flag.String("start", "2024-01-01", "first night to generate (YYYY-MM-DD)")
	nights := flag.Int("nights", 30, "number of consecutive nights")
	perHour := flag.Int("per-hour", 4, "samples per night-window hour")
	seed := flag.Int64("seed", 1, "PRNG seed for reproducible output")
	flag.Parse()

	start, err := time.ParseInLocation(time.DateOnly, *startStr, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *nights <= 0 || *perHour <= 0 {
		return fmt.Errorf("-nights and -per-hour must be positive")
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	total := 0
	for n := 0; n < *nights; n++ {
		date := start.AddDate(0, 0, n)
		name := fmt.Sprintf("%s_%s.dat", *instrument, date.Format(time.DateOnly))
		rows, err := generateNight(rng, date, *perHour)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(*out, name), *instrument, date, rows); err != nil {
			return err
		}
		total += len(rows)
		log.Printf("%s: %d rows", name, len(rows))
	}

	log.Printf("total: %d rows across %d nights", total, *nights)
	return nil
}

// generateNight emits samples for the evening hours of date plus the
// early-morning hours of the following date, matching how a real
// instrument logs one observing night into one file.
func generateNight(rng *rand.Rand, date time.Time, perHour int) ([]string, error) {
	// Cold clear night roughly every other night; warm cloudy otherwise.
	baseSkyTemp := -6.0 + rng.Float64()*4.0
	if rng.Intn(2) == 0 {
		baseSkyTemp = 1.0 + rng.Float64()*3.0
	}
	baseMSAS := 19.0 + rng.Float64()*2.0

	hours := make([]time.Time, 0, 8)
	for h := domain.NightStartHour; h <= 23; h++ {
		hours = append(hours, date.Add(time.Duration(h)*time.Hour))
	}
	next := date.AddDate(0, 0, 1)
	for h := 0; h <= domain.NightEndHour; h++ {
		hours = append(hours, next.Add(time.Duration(h)*time.Hour))
	}

	var rows []string
	seq := rng.Intn(1000)
	for _, hour := range hours {
		for i := 0; i < perHour; i++ {
			ts := hour.Add(time.Duration(i) * (time.Hour / time.Duration(perHour)))
			seq++
			row := formatRow(ts,
				10.0+rng.Float64()*5.0,
				baseSkyTemp+rng.Float64()-0.5,
				2500.0+rng.Float64()*500.0,
				baseMSAS+rng.Float64()*0.4-0.2,
				20.35,
				seq,
			)
			// Self-check: a fixture the pipeline cannot parse is a bug here.
			if _, err := domain.ParseReading(row); err != nil {
				return nil, fmt.Errorf("generated unparseable row %q: %w", row, err)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func formatRow(ts time.Time, enclosureTemp, skyTemp, freq, msas, zeroPoint float64, seq int) string {
	local := ts.Format("2006-01-02T15:04:05.000")
	return fmt.Sprintf("%s;%s;%.2f;%.2f;%.1f;%.2f;%.2f;%d",
		ts.Format("2006-01-02T15:04:05.000"), local,
		enclosureTemp, skyTemp, freq, msas, zeroPoint, seq)
}

func writeFile(path, instrument string, date time.Time, rows []string) error {
	var b strings.Builder
	writePreamble(&b, instrument, date)
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// writePreamble emits the fixed-length instrument header the loader
// discards: station metadata padded to exactly preambleLines lines.
func writePreamble(b *strings.Builder, instrument string, date time.Time) {
	header := []string{
		"# Definition of the community standard for skyglow observations 1.0",
		"# URL: http://www.darksky.org/NSBM/sdf1.0.pdf",
		fmt.Sprintf("# Instrument ID: %s (synthetic)", instrument),
		"# Local timezone: UTC",
		"# Time Synchronization: NTP",
		"# Data supplier: genlogs fixture generator",
		fmt.Sprintf("# Date: %s", date.Format(time.DateOnly)),
		"# Fields: UTC time;local time;enclosure temp;sky temp;frequency;MSAS;zero point;sequence",
	}
	for _, line := range header {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for i := len(header); i < preambleLines; i++ {
		b.WriteString("#\n")
	}
}
