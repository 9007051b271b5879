// Package config loads service settings from an optional YAML file with
// environment-variable overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Telemetry store.
	DBPath string `koanf:"db_path"`

	// Deployment site assumed when a query names no location.
	DefaultLocation string `koanf:"default_location"`

	// Kafka ingest.
	KafkaBrokers       []string      `koanf:"kafka_brokers"`
	KafkaTopic         string        `koanf:"kafka_topic"`
	KafkaGroupID       string        `koanf:"kafka_group_id"`
	BatchSize          int           `koanf:"batch_size"`
	BatchFlushInterval time.Duration `koanf:"batch_flush_interval"`
}

func defaults() Config {
	return Config{
		HTTPAddr:           ":8080",
		LogLevel:           "info",
		LogFormat:          "json",
		ShutdownTimeout:    10 * time.Second,
		DBPath:             "agriculture.db",
		DefaultLocation:    "El Guineo, Aguazul, Casanare, Colombia",
		KafkaBrokers:       []string{"localhost:9092"},
		KafkaTopic:         "sensor-readings",
		KafkaGroupID:       "agriculture-agent",
		BatchSize:          50,
		BatchFlushInterval: 500 * time.Millisecond,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return errors.New("invalid SHUTDOWN_TIMEOUT")
		}
		cfg.ShutdownTimeout = d
	}
	if v := os.Getenv("AGENT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("AGENT_DEFAULT_LOCATION"); v != "" {
		cfg.DefaultLocation = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitBrokers(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		cfg.KafkaGroupID = v
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.New("invalid BATCH_SIZE")
		}
		cfg.BatchSize = n
	}
	if v := os.Getenv("BATCH_FLUSH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return errors.New("invalid BATCH_FLUSH_INTERVAL")
		}
		cfg.BatchFlushInterval = d
	}
	return nil
}

func splitBrokers(v string) []string {
	var brokers []string
	for _, b := range strings.Split(v, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// IngestEnabled reports whether the Kafka ingest loop should run. An
// empty broker list disables it; the agent then answers from whatever the
// store already holds.
func (c *Config) IngestEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.IngestEnabled() && c.KafkaTopic == "" {
		return errors.New("kafka_topic is required when brokers are set")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}
	return nil
}
