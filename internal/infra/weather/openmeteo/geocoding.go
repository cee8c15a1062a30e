package openmeteo

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

// GeocodingClient searches places by name.
type GeocodingClient struct {
	baseURL  string
	language string
	http     *transport
}

// NewGeocodingClient builds the geocoding adapter.
func NewGeocodingClient(cfg Config) *GeocodingClient {
	base := strings.TrimSpace(cfg.GeocodingURL)
	if base == "" {
		base = DefaultGeocodingURL
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = "en"
	}
	return &GeocodingClient{
		baseURL:  strings.TrimRight(base, "/"),
		language: language,
		http:     newTransport("open-meteo-geocoding", cfg.Timeout, cfg.Retry, userAgent),
	}
}

// Search implements advisor.Geocoder.
func (c *GeocodingClient) Search(ctx context.Context, query string, limit int) ([]advisor.Location, error) {
	if limit <= 0 {
		limit = 10
	}
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", strconv.Itoa(limit))
	values.Set("language", c.language)
	values.Set("format", "json")

	var raw geocodingResponse
	if err := c.http.getJSON(ctx, c.baseURL+"?"+values.Encode(), &raw); err != nil {
		return nil, err
	}

	out := make([]advisor.Location, 0, len(raw.Results))
	for _, result := range raw.Results {
		out = append(out, advisor.Location{
			Name:        result.Name,
			State:       result.Admin1,
			Country:     result.Country,
			Latitude:    result.Latitude,
			Longitude:   result.Longitude,
			DisplayName: advisor.DisplayNameFor(result.Name, result.Admin1, result.Country),
		})
	}
	return out, nil
}

// results is omitted entirely when nothing matches.
type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Timezone  string  `json:"timezone"`
}

var _ advisor.Geocoder = (*GeocodingClient)(nil)
