package cache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/arvault/exchange-service/internal/adapters/cache"
	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/ports"
	"github.com/arvault/exchange-service/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenCache fails every operation, standing in for an unreachable Redis.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

var _ ports.Cache = brokenCache{}

func newLayer(t *testing.T, c ports.Cache, ttl time.Duration) *cache.Layer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cache.NewLayer(c, ttl, logger, metrics.New(prometheus.NewRegistry()))
}

func TestReadThrough_MissFetchesAndPopulates(t *testing.T) {
	ctx := context.Background()
	layer := newLayer(t, cache.NewMemoryCache(), time.Minute)

	fetches := 0
	fetch := func(context.Context) (string, error) {
		fetches++
		return "value", nil
	}

	got, err := cache.ReadThrough(ctx, layer, "things:1", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache.
	got, err = cache.ReadThrough(ctx, layer, "things:1", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, 1, fetches)
}

func TestReadThrough_FetchErrorNotCached(t *testing.T) {
	ctx := context.Background()
	layer := newLayer(t, cache.NewMemoryCache(), time.Minute)

	fetches := 0
	fetch := func(context.Context) (string, error) {
		fetches++
		return "", apperrors.ErrAccountNotFound
	}

	_, err := cache.ReadThrough(ctx, layer, "things:missing", fetch)
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	// The failure was not cached; the store is asked again.
	_, err = cache.ReadThrough(ctx, layer, "things:missing", fetch)
	require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	assert.Equal(t, 2, fetches)
}

func TestReadThrough_BrokenCacheDegradesToStore(t *testing.T) {
	ctx := context.Background()
	layer := newLayer(t, brokenCache{}, time.Minute)

	got, err := cache.ReadThrough(ctx, layer, "things:1", func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestInvalidate_ErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	layer := newLayer(t, brokenCache{}, time.Minute)

	err := layer.Invalidate(ctx, "things:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCacheUnavailable)
}

func TestInvalidate_DropsEntry(t *testing.T) {
	ctx := context.Background()
	layer := newLayer(t, cache.NewMemoryCache(), time.Minute)

	fetches := 0
	fetch := func(context.Context) (string, error) {
		fetches++
		return "value", nil
	}

	_, err := cache.ReadThrough(ctx, layer, "things:1", fetch)
	require.NoError(t, err)

	require.NoError(t, layer.Invalidate(ctx, "things:1"))

	_, err = cache.ReadThrough(ctx, layer, "things:1", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()

	require.NoError(t, mem.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	got, err := mem.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	time.Sleep(20 * time.Millisecond)

	_, err = mem.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()

	require.NoError(t, mem.Set(ctx, "k", []byte("v"), 0))

	time.Sleep(10 * time.Millisecond)

	got, err := mem.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
