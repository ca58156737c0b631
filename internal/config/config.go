package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers   []string
	KafkaSinkTopic string
	HTTPAddr       string
	LogLevel       string
	LogFormat      string

	ShutdownTimeout time.Duration
	BatchSize       int

	// NOAA archive fetch configuration.
	BaseURL        string
	StationsURL    string
	Stations       []string // usaf-wban pairs, e.g. "030050-99999"
	StartYear      int
	EndYear        int
	FetchTimeout   time.Duration
	FetchCacheSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	fetchTimeoutStr := sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "30s")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	startYear, err := parseYear("GSOD_START_YEAR")
	if err != nil {
		return nil, err
	}
	endYear, err := parseYear("GSOD_END_YEAR")
	if err != nil {
		return nil, err
	}

	stations, err := parseStations(os.Getenv("GSOD_STATIONS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "daily-weather-summaries"),
		HTTPAddr:       sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:       sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),

		ShutdownTimeout: shutdownTimeout,
		BatchSize:       batchSize,

		BaseURL:        sharedcfg.EnvOrDefault("GSOD_BASE_URL", ""),
		StationsURL:    sharedcfg.EnvOrDefault("STATIONS_URL", ""),
		Stations:       stations,
		StartYear:      startYear,
		EndYear:        endYear,
		FetchTimeout:   fetchTimeout,
		FetchCacheSize: parseFetchCacheSize(),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if len(cfg.Stations) == 0 {
		return nil, errors.New("GSOD_STATIONS is required")
	}
	if cfg.StartYear > cfg.EndYear {
		return nil, fmt.Errorf("GSOD_START_YEAR %d is after GSOD_END_YEAR %d", cfg.StartYear, cfg.EndYear)
	}

	return cfg, nil
}

// parseStations splits the comma-separated usaf-wban list and validates the
// pair format without interpreting the identifiers.
func parseStations(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	stations := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		usaf, wban, ok := strings.Cut(p, "-")
		if !ok || usaf == "" || wban == "" {
			return nil, fmt.Errorf("invalid GSOD_STATIONS entry %q, want usaf-wban", p)
		}
		stations = append(stations, p)
	}
	return stations, nil
}

func parseYear(key string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1901 || year > 2200 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return year, nil
}

func parseFetchCacheSize() int {
	if s := os.Getenv("FETCH_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 64
}
