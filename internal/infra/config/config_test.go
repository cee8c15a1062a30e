package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)

	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "Yokohama", cfg.Forecast.DefaultLocation.Name)
	require.InDelta(t, 35.4437, cfg.Forecast.DefaultLocation.Latitude, 1e-9)
	require.InDelta(t, 139.6380, cfg.Forecast.DefaultLocation.Longitude, 1e-9)
	require.Equal(t, 7, cfg.Forecast.ForecastDays)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
forecast:
  forecastDays: 5
  cacheTtl: 10m
  defaultLocation:
    name: Sapporo
    latitude: 43.06
    longitude: 141.35
cache:
  valkey:
    enabled: true
    addr: localhost:6379
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("FORECAST_DAYS", "3")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("HTTP_RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 3, cfg.Forecast.ForecastDays)
	require.Equal(t, 10*time.Minute, cfg.Forecast.CacheTTL)
	require.Equal(t, "Sapporo", cfg.Forecast.DefaultLocation.Name)
	require.True(t, cfg.Cache.Valkey.Enabled)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.False(t, cfg.HTTP.RateLimit.Enabled)
	// Untouched sections keep their defaults.
	require.Equal(t, 100, cfg.History.MemoryCapacity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"forecast days", func(c *Config) { c.Forecast.ForecastDays = 0 }},
		{"too many forecast days", func(c *Config) { c.Forecast.ForecastDays = 17 }},
		{"negative ttl", func(c *Config) { c.Forecast.CacheTTL = -time.Second }},
		{"latitude", func(c *Config) { c.Forecast.DefaultLocation.Latitude = 91 }},
		{"valkey without addr", func(c *Config) { c.Cache.Valkey.Enabled = true }},
		{"rate limit burst", func(c *Config) { c.HTTP.RateLimit.Burst = 0 }},
		{"memory capacity", func(c *Config) { c.History.MemoryCapacity = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
