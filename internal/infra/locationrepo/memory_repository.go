package locationrepo

import (
	"context"
	"sync"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

const defaultCapacity = 100

// MemoryRepository keeps the most recent locations in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	items    []advisor.Location // newest first
}

// NewMemoryRepository constructs a bounded in-memory history.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

// Record implements advisor.LocationHistory.
func (r *MemoryRepository) Record(_ context.Context, loc advisor.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]advisor.Location{loc}, r.items...)
	if len(r.items) > r.capacity {
		r.items = r.items[:r.capacity]
	}
	return nil
}

// Recent implements advisor.LocationHistory.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]advisor.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}
	out := make([]advisor.Location, limit)
	copy(out, r.items[:limit])
	return out, nil
}

var _ advisor.LocationHistory = (*MemoryRepository)(nil)
