package memcache

import (
	"context"
	"testing"
	"time"

	"food-track/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationCache(t *testing.T) {
	ctx := context.Background()

	sample := ports.LocationSample{
		OrderID:   "ord-1",
		CourierID: "cour-1",
		Latitude:  40.71,
		Longitude: -74.00,
		SampledAt: time.Now().UTC(),
	}

	t.Run("miss returns nil, nil", func(t *testing.T) {
		cache := New(time.Minute)
		got, err := cache.Get(ctx, "ord-404")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get", func(t *testing.T) {
		cache := New(time.Minute)
		require.NoError(t, cache.Set(ctx, sample))

		got, err := cache.Get(ctx, "ord-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sample, *got)
	})

	t.Run("newer sample replaces the older one", func(t *testing.T) {
		cache := New(time.Minute)
		require.NoError(t, cache.Set(ctx, sample))

		newer := sample
		newer.Latitude = 40.80
		require.NoError(t, cache.Set(ctx, newer))

		got, err := cache.Get(ctx, "ord-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 40.80, got.Latitude)
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		cache := New(5 * time.Minute)
		now := time.Now().UTC()
		cache.SetClock(func() time.Time { return now })
		require.NoError(t, cache.Set(ctx, sample))

		// one second before expiry: still there
		cache.SetClock(func() time.Time { return now.Add(5*time.Minute - time.Second) })
		got, err := cache.Get(ctx, "ord-1")
		require.NoError(t, err)
		assert.NotNil(t, got)

		// past expiry: gone
		cache.SetClock(func() time.Time { return now.Add(5*time.Minute + time.Second) })
		got, err = cache.Get(ctx, "ord-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("purge drops the entry and tolerates absent keys", func(t *testing.T) {
		cache := New(time.Minute)
		require.NoError(t, cache.Set(ctx, sample))
		require.NoError(t, cache.Purge(ctx, "ord-1"))
		require.NoError(t, cache.Purge(ctx, "ord-1"))

		got, err := cache.Get(ctx, "ord-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
