package openmeteo

import "time"

const (
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	userAgent           = "weather-advice/1.0"
)

// Config controls both Open-Meteo adapters.
type Config struct {
	ForecastURL  string
	GeocodingURL string
	ForecastDays int
	Language     string
	Timeout      time.Duration
	Retry        RetryPolicy
}
