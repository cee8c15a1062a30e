package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Forecast ForecastConfig `yaml:"forecast"`
	Cache    CacheConfig    `yaml:"cache"`
	History  HistoryConfig  `yaml:"history"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	AllowedOrigins  []string        `yaml:"allowedOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Retry           RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// ForecastConfig controls the upstream weather provider and the advisor.
type ForecastConfig struct {
	ForecastURL     string              `yaml:"forecastUrl"`
	GeocodingURL    string              `yaml:"geocodingUrl"`
	ForecastDays    int                 `yaml:"forecastDays"`
	Language        string              `yaml:"language"`
	Timeout         time.Duration       `yaml:"timeout"`
	CacheTTL        time.Duration       `yaml:"cacheTtl"`
	Timezone        string              `yaml:"timezone"`
	SearchLimit     int                 `yaml:"searchLimit"`
	HistoryRadiusKm float64             `yaml:"historyRadiusKm"`
	DefaultLocation LocationConfig      `yaml:"defaultLocation"`
	Retry           UpstreamRetryConfig `yaml:"retry"`
}

// LocationConfig describes the fallback location.
type LocationConfig struct {
	Name      string  `yaml:"name"`
	State     string  `yaml:"state"`
	Country   string  `yaml:"country"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// UpstreamRetryConfig bounds retries against the weather provider.
type UpstreamRetryConfig struct {
	MaxRetries int           `yaml:"maxRetries"`
	MinWait    time.Duration `yaml:"minWait"`
	MaxWait    time.Duration `yaml:"maxWait"`
}

// CacheConfig selects the forecast cache backend.
type CacheConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// HistoryConfig selects the location history backend.
type HistoryConfig struct {
	MemoryCapacity int            `yaml:"memoryCapacity"`
	Postgres       PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("FORECAST_URL"); v != "" {
		cfg.Forecast.ForecastURL = v
	}
	if v := os.Getenv("GEOCODING_URL"); v != "" {
		cfg.Forecast.GeocodingURL = v
	}
	if v := os.Getenv("FORECAST_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.ForecastDays = parsed
		}
	}
	if v := os.Getenv("FORECAST_LANGUAGE"); v != "" {
		cfg.Forecast.Language = v
	}
	if v := os.Getenv("FORECAST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.Timeout = parsed
		}
	}
	if v := os.Getenv("FORECAST_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.CacheTTL = parsed
		}
	}
	if v := os.Getenv("FORECAST_TIMEZONE"); v != "" {
		cfg.Forecast.Timezone = v
	}
	if v := os.Getenv("FORECAST_DEFAULT_LATITUDE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Forecast.DefaultLocation.Latitude = parsed
		}
	}
	if v := os.Getenv("FORECAST_DEFAULT_LONGITUDE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Forecast.DefaultLocation.Longitude = parsed
		}
	}
	if v := os.Getenv("FORECAST_DEFAULT_NAME"); v != "" {
		cfg.Forecast.DefaultLocation.Name = v
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_DSN"); v != "" {
		cfg.History.Postgres.DSN = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("HISTORY_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("HISTORY_MEMORY_CAPACITY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.MemoryCapacity = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 150 * time.Millisecond,
			},
		},
		Forecast: ForecastConfig{
			ForecastURL:     "https://api.open-meteo.com/v1/forecast",
			GeocodingURL:    "https://geocoding-api.open-meteo.com/v1/search",
			ForecastDays:    7,
			Language:        "en",
			Timeout:         10 * time.Second,
			CacheTTL:        30 * time.Minute,
			Timezone:        "Asia/Tokyo",
			SearchLimit:     10,
			HistoryRadiusKm: 1,
			DefaultLocation: LocationConfig{
				Name:      "Yokohama",
				State:     "Kanagawa",
				Country:   "Japan",
				Latitude:  35.4437,
				Longitude: 139.6380,
			},
			Retry: UpstreamRetryConfig{
				MaxRetries: 2,
				MinWait:    200 * time.Millisecond,
				MaxWait:    2 * time.Second,
			},
		},
		Cache: CacheConfig{
			Valkey: ValkeyConfig{
				Enabled: false,
				Prefix:  "weather",
			},
		},
		History: HistoryConfig{
			MemoryCapacity: 100,
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.Forecast.ForecastURL) == "" {
		return errors.New("forecast.forecastUrl cannot be empty")
	}
	if strings.TrimSpace(c.Forecast.GeocodingURL) == "" {
		return errors.New("forecast.geocodingUrl cannot be empty")
	}
	if c.Forecast.ForecastDays < 1 || c.Forecast.ForecastDays > 16 {
		return errors.New("forecast.forecastDays must be between 1 and 16")
	}
	if c.Forecast.CacheTTL < 0 {
		return errors.New("forecast.cacheTtl cannot be negative")
	}
	if c.Forecast.SearchLimit <= 0 {
		return errors.New("forecast.searchLimit must be positive")
	}
	if c.Forecast.HistoryRadiusKm < 0 {
		return errors.New("forecast.historyRadiusKm cannot be negative")
	}
	if c.Forecast.Retry.MaxRetries < 0 {
		return errors.New("forecast.retry.maxRetries cannot be negative")
	}
	loc := c.Forecast.DefaultLocation
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return errors.New("forecast.defaultLocation.latitude must be between -90 and 90")
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return errors.New("forecast.defaultLocation.longitude must be between -180 and 180")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	if c.History.MemoryCapacity <= 0 {
		return errors.New("history.memoryCapacity must be positive")
	}
	return nil
}
