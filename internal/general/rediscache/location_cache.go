package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-track/internal/general/config"
	"food-track/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "order_location:"

// LocationCache stores the most recent coordinate sample per order in Redis
// with a short TTL. A missing or expired entry is a cache miss, not an error,
// and must never be mistaken for "no such order".
type LocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and verifies connectivity.
func Connect(ctx context.Context, cfg config.Config) (*LocationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &LocationCache{client: client, ttl: cfg.LocationCacheTTL}, nil
}

var _ ports.LocationCache = (*LocationCache)(nil)

// Set stores the sample under the order's key, refreshing the TTL.
func (cache *LocationCache) Set(ctx context.Context, sample ports.LocationSample) error {
	body, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("marshal location sample: %w", err)
	}
	if err := cache.client.Set(ctx, keyPrefix+sample.OrderID, body, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the cached sample, or (nil, nil) on a miss.
func (cache *LocationCache) Get(ctx context.Context, orderID string) (*ports.LocationSample, error) {
	body, err := cache.client.Get(ctx, keyPrefix+orderID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sample ports.LocationSample
	if err := json.Unmarshal(body, &sample); err != nil {
		return nil, fmt.Errorf("unmarshal location sample: %w", err)
	}
	return &sample, nil
}

// Purge drops the entry. Purging an absent key is a no-op.
func (cache *LocationCache) Purge(ctx context.Context, orderID string) error {
	if err := cache.client.Del(ctx, keyPrefix+orderID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (cache *LocationCache) Close() error {
	return cache.client.Close()
}
