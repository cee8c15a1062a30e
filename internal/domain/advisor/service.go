package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/umahmood/haversine"
	"golang.org/x/sync/singleflight"

	"github.com/yanqian/weather-advice/internal/domain/advice"
	apperrors "github.com/yanqian/weather-advice/pkg/errors"
	"github.com/yanqian/weather-advice/pkg/util"
)

const (
	minQueryLength     = 2
	defaultRecentLimit = 10
	maxRecentLimit     = 50

	defaultFetchTimeout = 30 * time.Second
)

// Service exposes weather based daily advice.
type Service interface {
	DailyAdvice(ctx context.Context, req Request) (Response, error)
	WeeklyAdvice(ctx context.Context, req Request) (Response, error)
	SearchLocations(ctx context.Context, query string) ([]Location, error)
	RecentLocations(ctx context.Context, limit int) ([]Location, error)
}

type assembler func(series []advice.Observation, today string) []advice.DailyBundle

type service struct {
	cfg       Config
	forecasts ForecastClient
	geocoder  Geocoder
	cache     ForecastCache
	history   LocationHistory
	logger    *slog.Logger
	fetches   singleflight.Group
	now       func() time.Time
}

// NewService wires up the advisor domain.
func NewService(cfg Config, forecasts ForecastClient, geocoder Geocoder, cache ForecastCache, history LocationHistory, logger *slog.Logger) Service {
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 10
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	return &service{
		cfg:       cfg,
		forecasts: forecasts,
		geocoder:  geocoder,
		cache:     cache,
		history:   history,
		logger:    logger.With("component", "advisor.service"),
		now:       time.Now,
	}
}

func (s *service) DailyAdvice(ctx context.Context, req Request) (Response, error) {
	return s.advise(ctx, req, advice.Assemble)
}

func (s *service) WeeklyAdvice(ctx context.Context, req Request) (Response, error) {
	return s.advise(ctx, req, advice.AssembleAll)
}

func (s *service) advise(ctx context.Context, req Request, assemble assembler) (Response, error) {
	loc, err := s.resolveLocation(ctx, req)
	if err != nil {
		return Response{}, err
	}

	series, cached, err := s.forecast(ctx, loc.Coordinates())
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeForecastError, "failed to fetch forecast", err)
	}

	zone := util.ResolveZone(series.Timezone, series.UTCOffsetSeconds, s.cfg.Timezone)
	today := util.LocalDate(s.now(), zone)
	days := assemble(series.Days, today)
	s.logger.Info("advice computed", "location", loc.DisplayName, "today", today, "days", len(days), "cached", cached)

	s.remember(ctx, loc)

	fetchedAt := ""
	if !series.FetchedAt.IsZero() {
		fetchedAt = series.FetchedAt.UTC().Format(time.RFC3339)
	}
	return Response{
		Location:  loc,
		Timezone:  zone.String(),
		Today:     today,
		Days:      days,
		Source:    series.Source,
		FetchedAt: fetchedAt,
		Cached:    cached,
	}, nil
}

func (s *service) resolveLocation(ctx context.Context, req Request) (Location, error) {
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		return s.explicitLocation(*req.Latitude, *req.Longitude, req.Name)
	case req.Latitude != nil || req.Longitude != nil:
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude and longitude must be provided together", nil)
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return s.cfg.DefaultLocation, nil
	}

	matches, err := s.geocoder.Search(ctx, query, 1)
	if err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeGeocodingError, "failed to resolve location", err)
	}
	if len(matches) == 0 {
		s.logger.Warn("no location matched query, using default", "query", query, "default", s.cfg.DefaultLocation.DisplayName)
		return s.cfg.DefaultLocation, nil
	}
	return withDisplayName(matches[0]), nil
}

func (s *service) explicitLocation(lat, lon float64, name string) (Location, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude must be between -90 and 90", nil)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "longitude must be between -180 and 180", nil)
	}
	loc := Location{Name: strings.TrimSpace(name), Latitude: lat, Longitude: lon}
	loc.DisplayName = loc.Name
	if loc.DisplayName == "" {
		loc.DisplayName = coordinateLabel(loc.Coordinates())
	}
	return loc, nil
}

// forecast serves from cache when possible and coalesces concurrent
// upstream fetches for the same key. The shared fetch is detached from any
// single caller; each caller stops waiting when its own ctx ends.
func (s *service) forecast(ctx context.Context, point Coordinates) (ForecastSeries, bool, error) {
	key := cacheKey(point)
	if series, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("forecast cache read failed", "key", key, "error", err)
	} else if ok {
		return series, true, nil
	}

	results := s.fetches.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()
		series, err := s.forecasts.Fetch(fetchCtx, point)
		if err != nil {
			return ForecastSeries{}, err
		}
		if err := s.cache.Save(fetchCtx, key, series, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("forecast cache write failed", "key", key, "error", err)
		}
		return series, nil
	})

	select {
	case <-ctx.Done():
		return ForecastSeries{}, false, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return ForecastSeries{}, false, res.Err
		}
		series := res.Val.(ForecastSeries)
		s.logger.Info("forecast fetched", "key", key, "days", len(series.Days), "shared", res.Shared)
		return series, false, nil
	}
}

func (s *service) remember(ctx context.Context, loc Location) {
	recent, err := s.history.Recent(ctx, 1)
	if err != nil {
		s.logger.Warn("location history read failed", "error", err)
		return
	}
	if len(recent) > 0 && distanceKm(recent[0].Coordinates(), loc.Coordinates()) < s.cfg.HistoryRadiusKm {
		return
	}
	if err := s.history.Record(ctx, loc); err != nil {
		s.logger.Warn("location history write failed", "location", loc.DisplayName, "error", err)
	}
}

func (s *service) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < minQueryLength {
		return []Location{}, nil
	}

	matches, err := s.geocoder.Search(ctx, trimmed, s.cfg.SearchLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeGeocodingError, "location search failed", err)
	}
	out := make([]Location, 0, len(matches))
	for _, match := range matches {
		out = append(out, withDisplayName(match))
	}
	s.logger.Info("location search", "query", trimmed, "results", len(out))
	return out, nil
}

func (s *service) RecentLocations(ctx context.Context, limit int) ([]Location, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	items, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeHistoryError, "failed to load recent locations", err)
	}
	if items == nil {
		items = []Location{}
	}
	return items, nil
}

func withDisplayName(loc Location) Location {
	if strings.TrimSpace(loc.DisplayName) == "" {
		loc.DisplayName = DisplayNameFor(loc.Name, loc.State, loc.Country)
	}
	if loc.DisplayName == "" {
		loc.DisplayName = coordinateLabel(loc.Coordinates())
	}
	return loc
}

// cacheKey rounds to two decimals (roughly 1 km) so nearby requests share
// one upstream fetch.
func cacheKey(point Coordinates) string {
	return fmt.Sprintf("%.2f,%.2f", point.Latitude, point.Longitude)
}

func distanceKm(a, b Coordinates) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Latitude, Lon: a.Longitude},
		haversine.Coord{Lat: b.Latitude, Lon: b.Longitude},
	)
	return km
}
