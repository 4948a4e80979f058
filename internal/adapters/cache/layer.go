package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/ports"
	"github.com/arvault/exchange-service/internal/platform/metrics"
)

// Layer applies the cache-aside discipline over a ports.Cache: reads go
// through ReadThrough (hit → decode, miss → fetch and populate), writes go to
// the store first and then Invalidate the affected keys. The store is always
// the source of truth; a stale-free read after a write is guaranteed by
// invalidation, not by updating the cached value in place.
type Layer struct {
	cache   ports.Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewLayer wraps c with the configured TTL. metrics may be nil.
func NewLayer(c ports.Cache, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Layer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Layer{cache: c, ttl: ttl, logger: logger, metrics: m}
}

// scope is the key prefix up to the first ':', used as the metrics label.
func scope(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// ReadThrough returns the cached value for key, falling back to fetch on a
// miss and repopulating the cache with the layer's TTL. A not-found from
// fetch is returned as-is and never cached: repeated misses always re-check
// the store. Cache failures degrade to the store and are only logged.
func ReadThrough[T any](ctx context.Context, l *Layer, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := l.cache.Get(ctx, key)
	if err == nil {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			if l.metrics != nil {
				l.metrics.RecordCacheHit(scope(key))
			}
			return value, nil
		}
		// Undecodable entry: treat as a miss and let the repopulate below
		// overwrite it.
		l.logger.Warn("dropping undecodable cache entry", slog.String("key", key))
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		l.logger.Warn("cache read failed, falling back to store", slog.String("key", key), slog.String("error", err.Error()))
	}

	if l.metrics != nil {
		l.metrics.RecordCacheMiss(scope(key))
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("failed to encode value for cache", slog.String("key", key), slog.String("error", err.Error()))
		return value, nil
	}
	if err := l.cache.Set(ctx, key, encoded, l.ttl); err != nil {
		l.logger.Warn("failed to populate cache", slog.String("key", key), slog.String("error", err.Error()))
	}
	return value, nil
}

// Invalidate drops the entries for keys after a store write. Unlike reads, a
// failed invalidation cannot be shrugged off: a following read could then
// observe a value staler than the write that just completed, so the error is
// surfaced as apperrors.ErrCacheUnavailable.
func (l *Layer) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := l.cache.Delete(ctx, key); err != nil {
			return fmt.Errorf("%w: invalidate %s: %v", apperrors.ErrCacheUnavailable, key, err)
		}
	}
	return nil
}
