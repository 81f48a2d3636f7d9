// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// dictionary data files, the lookup defaults and every supporting subsystem
// (Redis cache, Kafka analytics, PostgreSQL snapshots, RPC, metrics).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Search    SearchConfig    `yaml:"search"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	RPC       RPCConfig       `yaml:"rpc"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DataConfig locates the three prebuilt dictionary artifacts and the static
// frontend.
type DataConfig struct {
	Dir         string `yaml:"dir"`
	WordsFile   string `yaml:"wordsFile"`
	IndexFile   string `yaml:"indexFile"`
	LettersFile string `yaml:"lettersFile"`
	StaticDir   string `yaml:"staticDir"`
}

// WordsPath returns the entry collection path.
func (d DataConfig) WordsPath() string { return d.resolve(d.WordsFile) }

// IndexPath returns the term index path.
func (d DataConfig) IndexPath() string { return d.resolve(d.IndexFile) }

// LettersPath returns the letter index path.
func (d DataConfig) LettersPath() string { return d.resolve(d.LettersFile) }

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// SearchConfig controls lookup defaults and limits.
type SearchConfig struct {
	DefaultLimit      int    `yaml:"defaultLimit"`
	MaxLimit          int    `yaml:"maxLimit"`
	DefaultSort       string `yaml:"defaultSort"`
	DefaultExact      bool   `yaml:"defaultExact"`
	SubstringMaxRunes int    `yaml:"substringMaxRunes"`
	HighlightOpen     string `yaml:"highlightOpen"`
	HighlightClose    string `yaml:"highlightClose"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled       bool        `yaml:"enabled"`
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	LookupEvents string `yaml:"lookupEvents"`
}

// PostgresConfig holds PostgreSQL connection parameters for analytics
// snapshots.
type PostgresConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	Database          string        `yaml:"database"`
	User              string        `yaml:"user"`
	Password          string        `yaml:"password"`
	SSLMode           string        `yaml:"sslMode"`
	MaxOpenConns      int           `yaml:"maxOpenConns"`
	MaxIdleConns      int           `yaml:"maxIdleConns"`
	ConnMaxLifetime   time.Duration `yaml:"connMaxLifetime"`
	SnapshotInterval  time.Duration `yaml:"snapshotInterval"`
	SnapshotRetention int           `yaml:"snapshotRetention"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RPCConfig controls the JSON-over-TCP lookup endpoint.
type RPCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig controls span logging for the lookup pipeline.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate float64 `yaml:"sampleRate"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// RateLimitConfig controls per-client request limiting on the public API.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := Default()
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

// Default returns a Config with defaults for local development.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			Dir:         "data",
			WordsFile:   "words.json",
			IndexFile:   "index.json",
			LettersFile: "word_dict.json",
			StaticDir:   "web",
		},
		Search: SearchConfig{
			DefaultLimit:      100,
			MaxLimit:          10000,
			DefaultSort:       "freq",
			DefaultExact:      true,
			SubstringMaxRunes: 1,
			HighlightOpen:     "<mark>",
			HighlightClose:    "</mark>",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "dictionary-analytics",
			Topics: KafkaTopics{
				LookupEvents: "dictionary.lookups",
			},
		},
		Postgres: PostgresConfig{
			Host:              "localhost",
			Port:              5432,
			Database:          "dictionary",
			User:              "dictionary",
			Password:          "localdev",
			SSLMode:           "disable",
			MaxOpenConns:      5,
			MaxIdleConns:      2,
			ConnMaxLifetime:   5 * time.Minute,
			SnapshotInterval:  time.Minute,
			SnapshotRetention: 1440,
		},
		RPC: RPCConfig{
			Addr: ":9000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			SampleRate: 0.01,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 600,
		},
	}
}

// Validate checks values that would otherwise surface as confusing runtime
// behaviour.
func (c *Config) Validate() error {
	if c.Search.DefaultLimit < 1 {
		return fmt.Errorf("search.defaultLimit must be positive, got %d", c.Search.DefaultLimit)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.maxLimit (%d) must be >= search.defaultLimit (%d)", c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	switch c.Search.DefaultSort {
	case "freq", "alpha", "alpha_rev":
	default:
		return fmt.Errorf("search.defaultSort %q is not one of freq, alpha, alpha_rev", c.Search.DefaultSort)
	}
	if c.Search.SubstringMaxRunes < 0 {
		return fmt.Errorf("search.substringMaxRunes must not be negative")
	}
	if c.Data.WordsFile == "" || c.Data.IndexFile == "" || c.Data.LettersFile == "" {
		return fmt.Errorf("data.wordsFile, data.indexFile and data.lettersFile are required")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rateLimit.requestsPerMinute must be positive when enabled")
	}
	return nil
}

// applyEnvOverrides reads UD_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("UD_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("UD_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("UD_STATIC_DIR"); v != "" {
		cfg.Data.StaticDir = v
	}
	if v := os.Getenv("UD_SEARCH_DEFAULT_EXACT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.DefaultExact = b
		}
	}
	if v := os.Getenv("UD_REDIS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = b
		}
	}
	if v := os.Getenv("UD_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("UD_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("UD_KAFKA_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = b
		}
	}
	if v := os.Getenv("UD_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("UD_POSTGRES_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Postgres.Enabled = b
		}
	}
	if v := os.Getenv("UD_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("UD_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("UD_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("UD_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
