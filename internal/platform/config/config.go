package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full runtime configuration. Values come from an optional TOML
// file named by PATENTDESK_CONFIG, then environment variables override them.
type Config struct {
	Server    Server          `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Kafka     KafkaConfig     `toml:"kafka"`
	Bulletin  BulletinConfig  `toml:"bulletin"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Log       LogConfig       `toml:"log"`
	Tracing   TracingConfig   `toml:"tracing"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `toml:"addr"`
	AdminTokenHash  string        `toml:"admin_token_hash"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// DatabaseConfig points at the Postgres instance. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL          string `toml:"url"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	Migrate      bool   `toml:"migrate"`
}

// RedisConfig configures the rate limiter backend. An empty URL selects the
// in-memory limiter.
type RedisConfig struct {
	URL          string        `toml:"url"`
	PoolSize     int           `toml:"pool_size"`
	MinIdleConns int           `toml:"min_idle_conns"`
	DialTimeout  time.Duration `toml:"dial_timeout"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// KafkaConfig configures the contract mail publisher. No brokers selects the
// in-memory publisher.
type KafkaConfig struct {
	Brokers     []string `toml:"brokers"`
	ClientID    string   `toml:"client_id"`
	EmailTopic  string   `toml:"email_topic"`
	CreateTopic bool     `toml:"create_topic"`
}

// BulletinConfig bounds the bulletin aggregators.
type BulletinConfig struct {
	ScanPageSize      int `toml:"scan_page_size"`
	ScanMaxPages      int `toml:"scan_max_pages"`
	SearchPageSize    int `toml:"search_page_size"`
	SearchSafetyLimit int `toml:"search_safety_limit"`
}

// RateLimitConfig is the fixed window applied to bulletin search.
type RateLimitConfig struct {
	SearchLimit  int           `toml:"search_limit"`
	SearchWindow time.Duration `toml:"search_window"`
	Disabled     bool          `toml:"disabled"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// TracingConfig selects the span exporter: "none" keeps spans in process,
// "stdout" writes them as JSON. A sample ratio outside (0, 1] samples every
// trace.
type TracingConfig struct {
	Exporter    string  `toml:"exporter"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 5},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{ClientID: "patentdesk", EmailTopic: "contract-emails"},
		Bulletin: BulletinConfig{
			ScanPageSize:      1000,
			ScanMaxPages:      50,
			SearchPageSize:    1000,
			SearchSafetyLimit: 20000,
		},
		RateLimit: RateLimitConfig{SearchLimit: 30, SearchWindow: time.Minute},
		Log:       LogConfig{Level: "info", Format: "json"},
		Tracing:   TracingConfig{Exporter: "none", SampleRatio: 1},
	}
}

// Load reads the optional TOML file at path and applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to decode config: %w", err)
			}
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds the config from PATENTDESK_CONFIG and the environment so
// main stays lean.
func FromEnv() (Config, error) {
	return Load(os.Getenv("PATENTDESK_CONFIG"))
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	setString(lookup, "PATENTDESK_ADDR", &cfg.Server.Addr)
	setString(lookup, "ADMIN_TOKEN_HASH", &cfg.Server.AdminTokenHash)
	setString(lookup, "DATABASE_URL", &cfg.Database.URL)
	setString(lookup, "REDIS_URL", &cfg.Redis.URL)
	setString(lookup, "KAFKA_EMAIL_TOPIC", &cfg.Kafka.EmailTopic)
	setString(lookup, "LOG_LEVEL", &cfg.Log.Level)
	setString(lookup, "LOG_FORMAT", &cfg.Log.Format)
	setString(lookup, "TRACING_EXPORTER", &cfg.Tracing.Exporter)
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v, ok := lookup("DATABASE_MIGRATE"); ok {
		cfg.Database.Migrate = v == "true"
	}
	if v, ok := lookup("SEARCH_RATE_LIMIT_DISABLED"); ok {
		cfg.RateLimit.Disabled = v == "true"
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BULLETIN_SCAN_PAGE_SIZE", &cfg.Bulletin.ScanPageSize},
		{"BULLETIN_SCAN_MAX_PAGES", &cfg.Bulletin.ScanMaxPages},
		{"BULLETIN_SEARCH_PAGE_SIZE", &cfg.Bulletin.SearchPageSize},
		{"BULLETIN_SEARCH_SAFETY_LIMIT", &cfg.Bulletin.SearchSafetyLimit},
		{"SEARCH_RATE_LIMIT", &cfg.RateLimit.SearchLimit},
	}
	for _, e := range ints {
		if err := setInt(lookup, e.key, e.dst); err != nil {
			return err
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"REQUEST_TIMEOUT", &cfg.Server.RequestTimeout},
		{"SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout},
		{"SEARCH_RATE_WINDOW", &cfg.RateLimit.SearchWindow},
	}
	for _, e := range durations {
		if err := setDuration(lookup, e.key, e.dst); err != nil {
			return err
		}
	}
	return nil
}

func setString(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}

func setInt(lookup lookupFunc, key string, dst *int) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(lookup lookupFunc, key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
