package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/weather-advice/internal/domain/advice"
)

// Request captures the payload accepted by the advice endpoints. Either both
// coordinates, a free-text query, or nothing (default location) is expected.
type Request struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Query     string   `json:"query"`
	Name      string   `json:"name"`
}

// Response is serialized back to API consumers.
type Response struct {
	Location  Location             `json:"location"`
	Timezone  string               `json:"timezone"`
	Today     string               `json:"today"`
	Days      []advice.DailyBundle `json:"days"`
	Source    string               `json:"source"`
	FetchedAt string               `json:"fetchedAt"`
	Cached    bool                 `json:"cached"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a named place the forecast is requested for.
type Location struct {
	Name        string  `json:"name"`
	State       string  `json:"state,omitempty"`
	Country     string  `json:"country,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// Coordinates returns the point of the location.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// DisplayNameFor renders "name, state, country", dropping empty parts.
func DisplayNameFor(name, state, country string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{name, state, country} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

func coordinateLabel(c Coordinates) string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// ForecastSeries is the normalized daily forecast for one point.
type ForecastSeries struct {
	Coordinates      Coordinates          `json:"coordinates"`
	Timezone         string               `json:"timezone"`
	UTCOffsetSeconds int                  `json:"utcOffsetSeconds"`
	Days             []advice.Observation `json:"days"`
	FetchedAt        time.Time            `json:"fetchedAt"`
	Source           string               `json:"source"`
}

// Config wires runtime knobs for the advisor domain.
type Config struct {
	DefaultLocation Location
	CacheTTL        time.Duration
	SearchLimit     int
	Timezone        *time.Location
	HistoryRadiusKm float64
	// FetchTimeout bounds one shared upstream fetch, retries included.
	FetchTimeout    time.Duration
}

// ForecastClient fetches the daily forecast for a point.
type ForecastClient interface {
	Fetch(ctx context.Context, point Coordinates) (ForecastSeries, error)
}

// Geocoder resolves free text into candidate locations.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]Location, error)
}

// ForecastCache stores recently fetched series keyed by rounded coordinates.
type ForecastCache interface {
	Get(ctx context.Context, key string) (ForecastSeries, bool, error)
	Save(ctx context.Context, key string, series ForecastSeries, ttl time.Duration) error
}

// LocationHistory keeps the locations advice was requested for, newest first.
type LocationHistory interface {
	Record(ctx context.Context, loc Location) error
	Recent(ctx context.Context, limit int) ([]Location, error)
}
