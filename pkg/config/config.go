// Package config loads service configuration from a YAML file with environment expansion.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// rate limiter backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newswire.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Ingest     IngestConfig     `yaml:"ingest" json:"ingest" jsonschema:"description=Feed ingestion configuration"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article text extraction for entries without description"`
	Sources    []SourceConfig   `yaml:"sources" json:"sources" jsonschema:"description=Feed sources seeded into the store on start"`
	Auth       AuthConfig       `yaml:"auth" json:"auth" jsonschema:"description=Trigger endpoints access"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit" json:"ratelimit" jsonschema:"description=Subscription endpoint rate limiting"`
}

// IngestConfig holds feed ingestion settings
type IngestConfig struct {
	Window        time.Duration `yaml:"window" json:"window" jsonschema:"default=168h,description=Recency window (older entries are dropped)"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=15s,description=Timeout of a single feed fetch"`
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent" jsonschema:"default=0,minimum=0,description=Maximum feeds fetched at once (0 for unlimited)"`
	ExcerptLength int           `yaml:"excerpt_length" json:"excerpt_length" jsonschema:"default=200,minimum=20,description=Maximum excerpt length in characters"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newswire/1.0,description=User agent for feed requests"`
	ReportLimit   int           `yaml:"report_limit" json:"report_limit" jsonschema:"default=20,description=Maximum failures listed in a poll report"`
	SampleSize    int           `yaml:"sample_size" json:"sample_size" jsonschema:"default=5,description=Created records included in debug poll reports"`
	Interval      time.Duration `yaml:"interval" json:"interval" jsonschema:"default=0,description=Built-in poll interval (0 to rely on external trigger only)"`
}

// ExtractionConfig holds article extraction settings
type ExtractionConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable article text extraction"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Extraction timeout per article"`
}

// SourceConfig describes a feed source
type SourceConfig struct {
	Name string `yaml:"name" json:"name" jsonschema:"description=Display name of the publication"`
	Slug string `yaml:"slug" json:"slug" jsonschema:"required,description=Unique source identifier"`
	URL  string `yaml:"url" json:"url" jsonschema:"description=Feed URL (sources without it are not polled)"`
}

// AuthConfig holds the shared trigger secret
type AuthConfig struct {
	Secret string `yaml:"secret" json:"secret" jsonschema:"description=Shared secret for poll and import endpoints (e.g. ${CRON_SECRET})"`
}

// RateLimitConfig holds subscription rate limiter settings
type RateLimitConfig struct {
	Backend       string        `yaml:"backend" json:"backend" jsonschema:"default=memory,enum=memory,enum=redis,description=Counter store backend"`
	RedisAddr     string        `yaml:"redis_addr" json:"redis_addr" jsonschema:"description=Redis address (required for redis backend)"`
	RedisPassword string        `yaml:"redis_password" json:"redis_password" jsonschema:"description=Redis password"`
	RedisDB       int           `yaml:"redis_db" json:"redis_db" jsonschema:"default=0,description=Redis database number"`
	MaxRequests   int           `yaml:"max_requests" json:"max_requests" jsonschema:"default=5,minimum=1,description=Requests allowed per window"`
	Window        time.Duration `yaml:"window" json:"window" jsonschema:"default=1h,description=Fixed window length"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, decodes it and applies defaults
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema check is supplementary, it reports a stale schema.json
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:newswire.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Ingest.Window == 0 {
		c.Ingest.Window = 168 * time.Hour
	}
	if c.Ingest.FetchTimeout == 0 {
		c.Ingest.FetchTimeout = 15 * time.Second
	}
	if c.Ingest.ExcerptLength == 0 {
		c.Ingest.ExcerptLength = 200
	}
	if c.Ingest.UserAgent == "" {
		c.Ingest.UserAgent = "Newswire/1.0"
	}
	if c.Ingest.ReportLimit == 0 {
		c.Ingest.ReportLimit = 20
	}
	if c.Ingest.SampleSize == 0 {
		c.Ingest.SampleSize = 5
	}

	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 10 * time.Second
	}

	if c.RateLimit.Backend == "" {
		c.RateLimit.Backend = BackendMemory
	}
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = 5
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Hour
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return errors.New("server timeout must be at least 1 second")
	}

	if cfg.Ingest.Window < 0 {
		return errors.New("ingest window must not be negative")
	}
	if cfg.Ingest.FetchTimeout < 100*time.Millisecond {
		return errors.New("ingest fetch_timeout must be at least 100ms")
	}
	if cfg.Ingest.MaxConcurrent < 0 {
		return errors.New("ingest max_concurrent must be non-negative")
	}
	if cfg.Ingest.ExcerptLength < 20 {
		return errors.New("ingest excerpt_length must be at least 20")
	}
	if cfg.Ingest.Interval < 0 || (cfg.Ingest.Interval > 0 && cfg.Ingest.Interval < time.Minute) {
		return errors.New("ingest interval must be 0 or at least 1 minute")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return errors.New("extraction timeout must be at least 1 second")
	}

	seen := make(map[string]bool, len(cfg.Sources))
	for i, src := range cfg.Sources {
		if src.Slug == "" {
			return fmt.Errorf("sources[%d]: slug is required", i)
		}
		if seen[src.Slug] {
			return fmt.Errorf("sources[%d]: duplicate slug %q", i, src.Slug)
		}
		seen[src.Slug] = true
		if src.URL == "" {
			continue
		}
		if u, err := url.Parse(src.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("sources[%d]: invalid url %q", i, src.URL)
		}
	}

	switch cfg.RateLimit.Backend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RateLimit.RedisAddr == "" {
			return errors.New("ratelimit redis_addr is required for redis backend")
		}
	default:
		return fmt.Errorf("ratelimit backend %q is not supported", cfg.RateLimit.Backend)
	}
	if cfg.RateLimit.MaxRequests < 1 {
		return errors.New("ratelimit max_requests must be at least 1")
	}
	if cfg.RateLimit.Window < time.Second {
		return errors.New("ratelimit window must be at least 1 second")
	}

	return nil
}
