package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Relational event store.
	SQLitePath string

	// Kafka wiring for remote report ingestion and alert dispatch.
	// Disabled by default; the service then runs with the HTTP intake only
	// and a log-only alert dispatcher.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaReportsTopic string
	KafkaAlertsTopic  string
	KafkaGroupID      string

	BatchSize          int
	BatchFlushInterval time.Duration

	// Buffer size of the in-process severity change feed.
	SeverityFeedBuffer int

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
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

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s")
	mapboxTimeout, err2 := time.ParseDuration(mapboxTimeoutStr)
	if err2 != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SQLitePath: sharedcfg.EnvOrDefault("SQLITE_PATH", "data/events.db"),

		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportsTopic: sharedcfg.EnvOrDefault("KAFKA_REPORTS_TOPIC", "remote-disaster-reports"),
		KafkaAlertsTopic:  sharedcfg.EnvOrDefault("KAFKA_ALERTS_TOPIC", "disaster-alerts"),
		KafkaGroupID:      sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "disaster-events-service"),

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		SeverityFeedBuffer: parsePositiveInt("SEVERITY_FEED_BUFFER", 256),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),
	}

	if cfg.SQLitePath == "" {
		return nil, errors.New("SQLITE_PATH is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaReportsTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_REPORTS_TOPIC is not set")
		}
		if cfg.KafkaAlertsTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_ALERTS_TOPIC is not set")
		}
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
