// Package openmeteo adapts the Open-Meteo forecast and geocoding APIs to the
// advisor domain ports.
package openmeteo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/weather-advice/internal/domain/advice"
	"github.com/yanqian/weather-advice/internal/domain/advisor"
	"github.com/yanqian/weather-advice/pkg/util"
)

const dailyFields = "temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max,weather_code"

// ForecastClient fetches daily forecasts.
type ForecastClient struct {
	baseURL string
	days    int
	http    *transport
	now     func() time.Time
}

// NewForecastClient builds the forecast adapter.
func NewForecastClient(cfg Config) *ForecastClient {
	base := strings.TrimSpace(cfg.ForecastURL)
	if base == "" {
		base = DefaultForecastURL
	}
	days := cfg.ForecastDays
	if days <= 0 {
		days = 7
	}
	return &ForecastClient{
		baseURL: strings.TrimRight(base, "/"),
		days:    days,
		http:    newTransport("open-meteo-forecast", cfg.Timeout, cfg.Retry, userAgent),
		now:     util.NowUTC,
	}
}

// Fetch retrieves the daily series for a point. Wind speed is requested in m/s.
func (c *ForecastClient) Fetch(ctx context.Context, point advisor.Coordinates) (advisor.ForecastSeries, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(point.Latitude, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(point.Longitude, 'f', 4, 64))
	values.Set("daily", dailyFields)
	values.Set("timezone", "auto")
	values.Set("wind_speed_unit", "ms")
	values.Set("forecast_days", strconv.Itoa(c.days))

	var raw forecastResponse
	if err := c.http.getJSON(ctx, c.baseURL+"?"+values.Encode(), &raw); err != nil {
		return advisor.ForecastSeries{}, err
	}

	days, err := raw.Daily.observations()
	if err != nil {
		return advisor.ForecastSeries{}, err
	}
	return advisor.ForecastSeries{
		Coordinates:      advisor.Coordinates{Latitude: raw.Latitude, Longitude: raw.Longitude},
		Timezone:         raw.Timezone,
		UTCOffsetSeconds: raw.UTCOffsetSeconds,
		Days:             days,
		FetchedAt:        c.now(),
		Source:           c.baseURL,
	}, nil
}

type forecastResponse struct {
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Timezone         string     `json:"timezone"`
	UTCOffsetSeconds int        `json:"utc_offset_seconds"`
	Daily            dailyBlock `json:"daily"`
}

// dailyBlock is the columnar layout Open-Meteo uses: one array per field.
type dailyBlock struct {
	Time                        []string   `json:"time"`
	TemperatureMax              []*float64 `json:"temperature_2m_max"`
	TemperatureMin              []*float64 `json:"temperature_2m_min"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
	WindSpeedMax                []*float64 `json:"wind_speed_10m_max"`
	WeatherCode                 []*float64 `json:"weather_code"`
}

// observations transposes the columns into rows. The series stops at the
// first day missing a temperature, wind or weather code; a missing
// precipitation probability is read as 0.
func (d dailyBlock) observations() ([]advice.Observation, error) {
	n := len(d.Time)
	columns := map[string]int{
		"temperature_2m_max":            len(d.TemperatureMax),
		"temperature_2m_min":            len(d.TemperatureMin),
		"precipitation_probability_max": len(d.PrecipitationProbabilityMax),
		"wind_speed_10m_max":            len(d.WindSpeedMax),
		"weather_code":                  len(d.WeatherCode),
	}
	for name, length := range columns {
		if length != n {
			return nil, fmt.Errorf("malformed daily series: %s has %d values, time has %d", name, length, n)
		}
	}

	out := make([]advice.Observation, 0, n)
	for i := 0; i < n; i++ {
		if d.TemperatureMax[i] == nil || d.TemperatureMin[i] == nil || d.WindSpeedMax[i] == nil || d.WeatherCode[i] == nil {
			break
		}
		precip := 0
		if p := d.PrecipitationProbabilityMax[i]; p != nil {
			precip = int(math.Round(*p))
		}
		out = append(out, advice.Observation{
			Date:                     d.Time[i],
			MaxTemperatureC:          *d.TemperatureMax[i],
			MinTemperatureC:          *d.TemperatureMin[i],
			PrecipitationProbability: precip,
			MaxWindSpeedMs:           *d.WindSpeedMax[i],
			WeatherCode:              int(*d.WeatherCode[i]),
		})
	}
	return out, nil
}

var _ advisor.ForecastClient = (*ForecastClient)(nil)
