package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultDatasetURL points at the NOAA storm events extract used by the
// report (bzip2-compressed CSV, 1950-2011).
const defaultDatasetURL = "https://d396qusza40orc.cloudfront.net/repdata%2Fdata%2FStormData.csv.bz2"

// Config holds all report settings, populated from environment variables.
type Config struct {
	DatasetURL      string
	CachePath       string
	CacheMaxAge     time.Duration // 0 means a cached copy never expires
	ReportPath      string
	TopN            int
	DownloadTimeout time.Duration

	LogLevel  string
	LogFormat string

	// DiagAddr enables the diagnostics HTTP listener when non-empty.
	DiagAddr        string
	MetricsTextfile string
	ShutdownTimeout time.Duration

	// Kafka summary publishing (disabled unless KAFKA_ENABLED=true).
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaSummaryTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	downloadTimeout, err := parseDuration("DOWNLOAD_TIMEOUT", "10m")
	if err != nil {
		return nil, err
	}

	cacheMaxAge, err := parseNonNegativeDuration("CACHE_MAX_AGE", "0s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	topN, err := parseTopN()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetURL:      envOrDefault("DATASET_URL", defaultDatasetURL),
		CachePath:       envOrDefault("CACHE_PATH", "data/StormData.csv.bz2"),
		CacheMaxAge:     cacheMaxAge,
		ReportPath:      envOrDefault("REPORT_PATH", "storm_impact_report.html"),
		TopN:            topN,
		DownloadTimeout: downloadTimeout,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		DiagAddr:        os.Getenv("DIAG_ADDR"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:      parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSummaryTopic: envOrDefault("KAFKA_SUMMARY_TOPIC", "storm-impact-summaries"),
	}

	if cfg.DatasetURL == "" {
		return nil, errors.New("DATASET_URL is required")
	}
	if cfg.CachePath == "" {
		return nil, errors.New("CACHE_PATH is required")
	}
	if cfg.ReportPath == "" {
		return nil, errors.New("REPORT_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SUMMARY_TOPIC is empty")
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
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseNonNegativeDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d < 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseTopN() (int, error) {
	n, err := strconv.Atoi(envOrDefault("TOP_N", "10"))
	if err != nil || n < 1 || n > 100 {
		return 0, errors.New("invalid TOP_N: must be an integer between 1 and 100")
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
