// Package config handles loading and validating the service configuration
// from a YAML file with environment variable substitution, followed by a
// CS_-prefixed environment overlay.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every overlay variable.
const EnvPrefix = "CS_"

// Search backends.
const (
	SearchBackendRemote = "remote"
	SearchBackendLocal  = "local"
)

// Cache backends.
const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
	CacheBackendNone     = "none"
)

// Config is the top-level service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Collector CollectorConfig `yaml:"collector"`
	Cache     CacheConfig     `yaml:"cache"`
	Database  DatabaseConfig  `yaml:"database"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"             env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CatalogConfig defines the commerce backend store API.
type CatalogConfig struct {
	URL            string `yaml:"url"             env:"CATALOG_URL"`
	PublishableKey string `yaml:"publishable_key" env:"PUBLISHABLE_KEY"`
	ProductsPath   string `yaml:"products_path"`
	VariantsPath   string `yaml:"variants_path"`
	// DefaultCountryCode is used when a request carries no country_code.
	DefaultCountryCode string `yaml:"default_country_code"`
	DefaultRegionID    string `yaml:"default_region_id"`
}

// SearchConfig defines the full-text search backend.
type SearchConfig struct {
	Backend         string        `yaml:"backend"` // remote, local
	URL             string        `yaml:"url"              env:"SEARCH_URL"`
	APIKey          string        `yaml:"api_key"          env:"SEARCH_API_KEY"`
	Path            string        `yaml:"path"`
	ReindexInterval time.Duration `yaml:"reindex_interval"`
	ReindexPageSize int           `yaml:"reindex_page_size"`
	ReindexMaxPages int           `yaml:"reindex_max_pages"`
}

// UpstreamConfig defines settings shared by every upstream HTTP client.
type UpstreamConfig struct {
	Timeout   time.Duration   `yaml:"timeout"    env:"UPSTREAM_TIMEOUT"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines the per-upstream token bucket. A zero PerSecond
// disables throttling.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// CollectorConfig defines id collector paging.
type CollectorConfig struct {
	SearchPageSize  int  `yaml:"search_page_size"`
	SearchMaxPages  int  `yaml:"search_max_pages"`
	VariantPageSize int  `yaml:"variant_page_size"`
	VariantMaxPages int  `yaml:"variant_max_pages"`
	VariantQuery    bool `yaml:"variant_query"` // forward q to the variant endpoint
}

// CacheConfig defines the collector cache.
type CacheConfig struct {
	Backend       string        `yaml:"backend"` // memory, postgres, none
	TTL           time.Duration `yaml:"ttl"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

// DatabaseConfig defines PostgreSQL connection settings. URL wins over the
// individual fields when set.
type DatabaseConfig struct {
	URL      string `yaml:"url"      env:"DATABASE_URL"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

func (d *DatabaseConfig) configured() bool {
	return d.URL != "" || (d.Host != "" && d.Name != "" && d.User != "")
}

// TelemetryConfig defines OpenTelemetry export.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"        env:"OTEL_ENDPOINT"`
	Insecure       bool          `yaml:"insecure"`
	ServiceName    string        `yaml:"service_name"`
	SampleRatio    float64       `yaml:"sample_ratio"`
	MetricInterval time.Duration `yaml:"metric_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"` // debug, info, warn, error
	Format string `yaml:"format"`                 // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution, the CS_ environment overlay and validation. An empty path
// skips the file and builds the config from the environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("reading environment overlay: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyCatalogDefaults(&cfg.Catalog)
	applySearchDefaults(&cfg.Search)
	applyUpstreamDefaults(&cfg.Upstream)
	applyCollectorDefaults(&cfg.Collector)
	applyCacheDefaults(&cfg.Cache)
	applyDatabaseDefaults(&cfg.Database)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.ProductsPath == "" {
		c.ProductsPath = "/store/products"
	}
	if c.VariantsPath == "" {
		c.VariantsPath = "/store/variants"
	}
	if c.DefaultCountryCode == "" {
		c.DefaultCountryCode = "us"
	}
}

func applySearchDefaults(s *SearchConfig) {
	if s.Backend == "" {
		s.Backend = SearchBackendRemote
	}
	if s.Path == "" {
		s.Path = "/store/search"
	}
	if s.ReindexInterval == 0 {
		s.ReindexInterval = 30 * time.Minute
	}
	if s.ReindexPageSize == 0 {
		s.ReindexPageSize = 200
	}
}

func applyUpstreamDefaults(u *UpstreamConfig) {
	if u.Timeout == 0 {
		u.Timeout = 10 * time.Second
	}
	if u.RateLimit.PerSecond > 0 && u.RateLimit.Burst == 0 {
		u.RateLimit.Burst = 1
	}
}

func applyCollectorDefaults(c *CollectorConfig) {
	if c.SearchPageSize == 0 {
		c.SearchPageSize = 100
	}
	if c.VariantPageSize == 0 {
		c.VariantPageSize = 100
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.Backend == "" {
		c.Backend = CacheBackendMemory
	}
	if c.TTL == 0 {
		c.TTL = time.Minute
	}
	if c.PurgeInterval == 0 {
		c.PurgeInterval = 10 * time.Minute
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "catalog-search"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	if cfg.Catalog.URL == "" {
		errs = append(errs, fmt.Errorf("catalog.url is required"))
	}

	switch cfg.Search.Backend {
	case SearchBackendRemote:
		if cfg.Search.URL == "" {
			errs = append(errs, fmt.Errorf("search.url is required when backend is remote"))
		}
	case SearchBackendLocal:
		if cfg.Search.ReindexPageSize < 1 {
			errs = append(errs, fmt.Errorf("search.reindex_page_size must be >= 1"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"search.backend must be one of: remote, local (got %q)", cfg.Search.Backend,
		))
	}

	if cfg.Upstream.Timeout < 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must not be negative"))
	}
	if cfg.Upstream.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("upstream.rate_limit.per_second must not be negative"))
	}

	for name, v := range map[string]int{
		"collector.search_page_size":  cfg.Collector.SearchPageSize,
		"collector.variant_page_size": cfg.Collector.VariantPageSize,
	} {
		if v < 1 {
			errs = append(errs, fmt.Errorf("%s must be >= 1 (got %d)", name, v))
		}
	}

	for name, v := range map[string]int{
		"collector.search_max_pages":  cfg.Collector.SearchMaxPages,
		"collector.variant_max_pages": cfg.Collector.VariantMaxPages,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must be >= 0 (got %d)", name, v))
		}
	}

	switch cfg.Cache.Backend {
	case CacheBackendMemory, CacheBackendNone:
	case CacheBackendPostgres:
		if !cfg.Database.configured() {
			errs = append(errs, fmt.Errorf(
				"database.url or database.host, name and user are required when cache backend is postgres",
			))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"cache.backend must be one of: memory, postgres, none (got %q)", cfg.Cache.Backend,
		))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, fmt.Errorf("telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be between 0 and 1"))
	}

	return errors.Join(errs...)
}
