package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-advice/internal/domain/advice"
	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

const forecastPayload = `{
  "latitude": 35.44,
  "longitude": 139.62,
  "timezone": "Asia/Tokyo",
  "utc_offset_seconds": 32400,
  "daily": {
    "time": ["2024-06-01", "2024-06-02", "2024-06-03"],
    "temperature_2m_max": [24.0, 31.2, null],
    "temperature_2m_min": [16.0, 21.4, 18.0],
    "precipitation_probability_max": [10, null, 40],
    "wind_speed_10m_max": [4.1, 9.5, 3.0],
    "weather_code": [1, 81, 3]
  }
}`

func TestForecastClientFetch(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		require.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastPayload))
	}))
	defer srv.Close()

	client := NewForecastClient(Config{ForecastURL: srv.URL, ForecastDays: 3})
	client.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	series, err := client.Fetch(context.Background(), advisor.Coordinates{Latitude: 35.4437, Longitude: 139.638})
	require.NoError(t, err)

	require.Equal(t, "35.4437", query["latitude"])
	require.Equal(t, "139.6380", query["longitude"])
	require.Equal(t, dailyFields, query["daily"])
	require.Equal(t, "ms", query["wind_speed_unit"])
	require.Equal(t, "auto", query["timezone"])
	require.Equal(t, "3", query["forecast_days"])

	require.Equal(t, "Asia/Tokyo", series.Timezone)
	require.Equal(t, 32400, series.UTCOffsetSeconds)
	require.Equal(t, srv.URL, series.Source)
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), series.FetchedAt)
	// The third day has no max temperature and ends the series.
	require.Equal(t, []advice.Observation{
		{Date: "2024-06-01", MaxTemperatureC: 24, MinTemperatureC: 16, PrecipitationProbability: 10, MaxWindSpeedMs: 4.1, WeatherCode: 1},
		{Date: "2024-06-02", MaxTemperatureC: 31.2, MinTemperatureC: 21.4, PrecipitationProbability: 0, MaxWindSpeedMs: 9.5, WeatherCode: 81},
	}, series.Days)
}

func TestForecastClientRejectsRaggedColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily":{"time":["2024-06-01","2024-06-02"],"temperature_2m_max":[1],"temperature_2m_min":[1,2],"precipitation_probability_max":[1,2],"wind_speed_10m_max":[1,2],"weather_code":[0,0]}}`))
	}))
	defer srv.Close()

	_, err := NewForecastClient(Config{ForecastURL: srv.URL}).Fetch(context.Background(), advisor.Coordinates{})
	require.ErrorContains(t, err, "temperature_2m_max")
}

func TestForecastClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(forecastPayload))
	}))
	defer srv.Close()

	client := NewForecastClient(Config{ForecastURL: srv.URL, Retry: RetryPolicy{MaxRetries: 2, MinWait: time.Millisecond, MaxWait: time.Second}})
	var waits []time.Duration
	client.http.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	series, err := client.Fetch(context.Background(), advisor.Coordinates{})
	require.NoError(t, err)
	require.Len(t, series.Days, 2)
	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, waits)
}

func TestForecastClientGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := NewForecastClient(Config{ForecastURL: srv.URL, Retry: RetryPolicy{MaxRetries: 1, MinWait: time.Millisecond}})
	client.http.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := client.Fetch(context.Background(), advisor.Coordinates{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadGateway, statusErr.Status)
	require.Equal(t, "upstream down", statusErr.Reason)
}

func TestForecastClientDoesNotRetryBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
	}))
	defer srv.Close()

	client := NewForecastClient(Config{ForecastURL: srv.URL, Retry: RetryPolicy{MaxRetries: 3, MinWait: time.Millisecond}})
	client.http.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := client.Fetch(context.Background(), advisor.Coordinates{Latitude: 120})
	require.ErrorContains(t, err, "Latitude must be in range")
	require.Equal(t, int32(1), calls.Load())
}

func TestForecastClientHonoursCancelledContext(t *testing.T) {
	client := NewForecastClient(Config{ForecastURL: "http://127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, advisor.Coordinates{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestForecastClientBackoffStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewForecastClient(Config{ForecastURL: srv.URL, Retry: RetryPolicy{MaxRetries: 3, MinWait: time.Minute, MaxWait: time.Minute}})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Fetch(ctx, advisor.Coordinates{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
	require.Equal(t, int32(1), calls.Load())
}
