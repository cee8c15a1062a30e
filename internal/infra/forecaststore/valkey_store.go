package forecaststore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

// ValkeyStore caches forecast series in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (advisor.ForecastSeries, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return advisor.ForecastSeries{}, false, nil
		}
		return advisor.ForecastSeries{}, false, err
	}
	var series advisor.ForecastSeries
	if err := json.Unmarshal([]byte(payload), &series); err != nil {
		return advisor.ForecastSeries{}, false, fmt.Errorf("decode cached forecast: %w", err)
	}
	return series, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, key string, series advisor.ForecastSeries, ttl time.Duration) error {
	payload, err := json.Marshal(series)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return fmt.Sprintf("%s:forecast:%s", s.prefix, key)
}

var _ advisor.ForecastCache = (*ValkeyStore)(nil)
