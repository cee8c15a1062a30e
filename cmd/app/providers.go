package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
	"github.com/yanqian/weather-advice/internal/infra/config"
	"github.com/yanqian/weather-advice/internal/infra/forecaststore"
	"github.com/yanqian/weather-advice/internal/infra/locationrepo"
	"github.com/yanqian/weather-advice/internal/infra/weather/openmeteo"
)

func provideAdvisorConfig(cfg *config.Config, logger *slog.Logger) advisor.Config {
	zone, err := time.LoadLocation(cfg.Forecast.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", "timezone", cfg.Forecast.Timezone, "error", err)
		zone = time.UTC
	}
	def := cfg.Forecast.DefaultLocation
	return advisor.Config{
		DefaultLocation: advisor.Location{
			Name:        def.Name,
			State:       def.State,
			Country:     def.Country,
			Latitude:    def.Latitude,
			Longitude:   def.Longitude,
			DisplayName: advisor.DisplayNameFor(def.Name, def.State, def.Country),
		},
		CacheTTL:        cfg.Forecast.CacheTTL,
		SearchLimit:     cfg.Forecast.SearchLimit,
		Timezone:        zone,
		HistoryRadiusKm: cfg.Forecast.HistoryRadiusKm,
		FetchTimeout:    upstreamBudget(cfg.Forecast),
	}
}

// upstreamBudget covers every attempt and backoff of one forecast fetch.
func upstreamBudget(cfg config.ForecastConfig) time.Duration {
	retries := time.Duration(max(cfg.Retry.MaxRetries, 0))
	return cfg.Timeout*(retries+1) + cfg.Retry.MaxWait*retries
}

func provideOpenMeteoConfig(cfg *config.Config) openmeteo.Config {
	return openmeteo.Config{
		ForecastURL:  cfg.Forecast.ForecastURL,
		GeocodingURL: cfg.Forecast.GeocodingURL,
		ForecastDays: cfg.Forecast.ForecastDays,
		Language:     cfg.Forecast.Language,
		Timeout:      cfg.Forecast.Timeout,
		Retry: openmeteo.RetryPolicy{
			MaxRetries: cfg.Forecast.Retry.MaxRetries,
			MinWait:    cfg.Forecast.Retry.MinWait,
			MaxWait:    cfg.Forecast.Retry.MaxWait,
		},
	}
}

func provideLocationHistory(cfg *config.Config, logger *slog.Logger) advisor.LocationHistory {
	fallback := locationrepo.NewMemoryRepository(cfg.History.MemoryCapacity)
	dsn := strings.TrimSpace(cfg.History.Postgres.DSN)
	if dsn == "" {
		logger.Info("history postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.History.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.Postgres.MaxConns
	}
	if cfg.History.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.History.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := locationrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("history postgres repository enabled")
	return repo
}

func provideForecastCache(cfg *config.Config, logger *slog.Logger) advisor.ForecastCache {
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return forecaststore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return forecaststore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("forecast valkey cache enabled", "addr", cfg.Cache.Valkey.Addr)
			return forecaststore.NewValkeyStore(client, cfg.Cache.Valkey.Prefix)
		}
	}
	return forecaststore.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
