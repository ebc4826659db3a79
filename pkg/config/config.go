// Package config loads and validates the indexer configuration from a YAML
// file with environment-variable overrides. Every subsystem (indexer,
// logging, metrics, report sinks and their backends) has its own typed
// section.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Indexer  IndexerConfig  `yaml:"indexer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Report   ReportConfig   `yaml:"report"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// IndexerConfig lists the documents to index and how many workers each
// indexing call may use.
type IndexerConfig struct {
	Documents     []string `yaml:"documents"`
	DocumentsDir  string   `yaml:"documentsDir"`
	DocumentsGlob string   `yaml:"documentsGlob"`
	ThreadCount   int      `yaml:"threadCount"`
	// MaxConcurrentDocuments bounds how many documents the collection
	// runner indexes at once. 1 keeps the sequential summary output.
	MaxConcurrentDocuments int `yaml:"maxConcurrentDocuments"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics and health server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// ReportConfig selects the sinks that receive one Result per indexing call
// and the resilience policy applied to each delivery.
type ReportConfig struct {
	Log              bool          `yaml:"log"`
	Kafka            bool          `yaml:"kafka"`
	Redis            bool          `yaml:"redis"`
	Postgres         bool          `yaml:"postgres"`
	Timeout          time.Duration `yaml:"timeout"`
	RetryAttempts    int           `yaml:"retryAttempts"`
	RetryDelay       time.Duration `yaml:"retryDelay"`
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerReset     time.Duration `yaml:"breakerReset"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	IndexRequest  string `yaml:"indexRequest"`
	IndexComplete string `yaml:"indexComplete"`
}

// RedisConfig holds Redis connection parameters and the TTL of stored
// document summaries.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	PoolSize  int           `yaml:"poolSize"`
	KeyPrefix string        `yaml:"keyPrefix"`
	StatusTTL time.Duration `yaml:"statusTTL"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the indexer cannot run with.
func (c *Config) Validate() error {
	if c.Indexer.ThreadCount <= 0 {
		return fmt.Errorf("indexer.threadCount must be positive, got %d", c.Indexer.ThreadCount)
	}
	if c.Indexer.MaxConcurrentDocuments <= 0 {
		return fmt.Errorf("indexer.maxConcurrentDocuments must be positive, got %d", c.Indexer.MaxConcurrentDocuments)
	}
	if c.Report.Kafka && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("report.kafka requires at least one kafka broker")
	}
	if c.Report.Kafka && c.Kafka.Topics.IndexComplete == "" {
		return fmt.Errorf("report.kafka requires kafka.topics.indexComplete")
	}
	if c.Report.Redis && c.Redis.Addr == "" {
		return fmt.Errorf("report.redis requires redis.addr")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Indexer: IndexerConfig{
			Documents: []string{
				"./documents/1.doc.txt",
				"./documents/2.doc.txt",
				"./documents/post.doc.txt",
				"./documents/shakespeare.doc.txt",
			},
			DocumentsGlob:          "*.txt",
			ThreadCount:            100,
			MaxConcurrentDocuments: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Report: ReportConfig{
			Log:              true,
			Timeout:          5 * time.Second,
			RetryAttempts:    3,
			RetryDelay:       100 * time.Millisecond,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "inverted-index",
			Topics: KafkaTopics{
				IndexRequest:  "index.request",
				IndexComplete: "index.complete",
			},
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  10,
			KeyPrefix: "invindex:",
			StatusTTL: 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "invindex",
			User:            "invindex",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}
}

// applyEnvOverrides reads II_* environment variables and overrides the
// corresponding config fields. Unparseable numbers are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("II_DOCUMENTS"); v != "" {
		cfg.Indexer.Documents = strings.Split(v, ",")
	}
	if v := os.Getenv("II_DOCUMENTS_DIR"); v != "" {
		cfg.Indexer.DocumentsDir = v
	}
	if v := os.Getenv("II_THREAD_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.ThreadCount = n
		}
	}
	if v := os.Getenv("II_MAX_CONCURRENT_DOCUMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.MaxConcurrentDocuments = n
		}
	}
	if v := os.Getenv("II_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("II_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("II_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
	if v := os.Getenv("II_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("II_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("II_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("II_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("II_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("II_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
}
