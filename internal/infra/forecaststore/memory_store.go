package forecaststore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

type seriesRecord struct {
	payload   advisor.ForecastSeries
	expiresAt time.Time
}

// MemoryStore is an in-memory forecast cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]seriesRecord
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]seriesRecord),
		now:     time.Now,
	}
}

// Get implements advisor.ForecastCache.
func (s *MemoryStore) Get(_ context.Context, key string) (advisor.ForecastSeries, bool, error) {
	s.mu.RLock()
	record, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return advisor.ForecastSeries{}, false, nil
	}
	if s.expired(record.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return advisor.ForecastSeries{}, false, nil
	}
	return record.payload, true, nil
}

// Save caches the series with optional TTL.
func (s *MemoryStore) Save(_ context.Context, key string, series advisor.ForecastSeries, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.entries[key] = seriesRecord{payload: series, expiresAt: exp}
	return nil
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ advisor.ForecastCache = (*MemoryStore)(nil)
