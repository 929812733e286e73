package memcache

import (
	"context"
	"sync"
	"time"

	"food-track/internal/ports"
)

// LocationCache is an in-process ports.LocationCache with per-entry TTL.
// Used as the no-Redis fallback and as the test double. Thread-safe.
type LocationCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	sample    ports.LocationSample
	expiresAt time.Time
}

// New creates an empty cache with the given TTL.
func New(ttl time.Duration) *LocationCache {
	return &LocationCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.LocationCache = (*LocationCache)(nil)

// Set stores the sample under the order's key, refreshing the TTL.
func (cache *LocationCache) Set(_ context.Context, sample ports.LocationSample) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[sample.OrderID] = entry{
		sample:    sample,
		expiresAt: cache.now().Add(cache.ttl),
	}
	return nil
}

// Get returns the cached sample, or (nil, nil) on a miss. Expired entries are
// dropped lazily on read.
func (cache *LocationCache) Get(_ context.Context, orderID string) (*ports.LocationSample, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	e, ok := cache.entries[orderID]
	if !ok {
		return nil, nil
	}
	if cache.now().After(e.expiresAt) {
		delete(cache.entries, orderID)
		return nil, nil
	}

	sample := e.sample
	return &sample, nil
}

// Purge drops the entry. Purging an absent key is a no-op.
func (cache *LocationCache) Purge(_ context.Context, orderID string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.entries, orderID)
	return nil
}

// SetClock overrides the time source. Test hook for TTL expiry.
func (cache *LocationCache) SetClock(now func() time.Time) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.now = now
}
