package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir       string
	FilePattern   string
	PreambleLines int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka export of computed nightly summaries.
	KafkaBrokers   []string
	KafkaSinkTopic string
	ExportEnabled  bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	preambleLines, err := parsePreambleLines()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	exportEnabled := len(brokers) > 0
	if v := os.Getenv("EXPORT_ENABLED"); v != "" {
		exportEnabled = v == "true"
	}

	cfg := &Config{
		DataDir:       envOrDefault("DATA_DIR", "data"),
		FilePattern:   envOrDefault("FILE_PATTERN", "stars927_2024-*.dat"),
		PreambleLines: preambleLines,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":3838"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:   brokers,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "nightly-sky-summaries"),
		ExportEnabled:  exportEnabled,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.FilePattern == "" {
		return nil, errors.New("FILE_PATTERN is required")
	}
	if cfg.ExportEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("EXPORT_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.ExportEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("EXPORT_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parsePreambleLines reads the per-file preamble length. The TESS-W
// firmware writes 35 header lines; the override exists for instruments
// running older firmware revisions.
func parsePreambleLines() (int, error) {
	s := os.Getenv("PREAMBLE_LINES")
	if s == "" {
		return 35, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid PREAMBLE_LINES")
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
