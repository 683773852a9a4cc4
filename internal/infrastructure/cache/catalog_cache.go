// Package cache keeps the aggregate catalog views in Redis between writes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/catalog/application"
	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
	"github.com/sngm3741/storecatalog/api/internal/metrics"
)

const (
	keyPrefix = "catalog:"
	// genKey holds the view generation. Every cached view key embeds the generation it was loaded under.
	genKey = keyPrefix + "gen"
)

var (
	_ application.CatalogAggregator = (*CatalogCache)(nil)
	_ application.ViewInvalidator   = (*CatalogCache)(nil)
)

// CatalogCache wraps a CatalogAggregator. Cache failures are logged and fall through to the wrapped aggregator.
type CatalogCache struct {
	next   application.CatalogAggregator
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogCache builds the cache decorator. ttl bounds staleness if an invalidation is lost.
func NewCatalogCache(client rueidis.Client, next application.CatalogAggregator, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CatalogCache) TagHistogram(ctx context.Context) ([]domain.TagCount, error) {
	key := func(gen string) string { return keyPrefix + "g" + gen + ":tags" }
	return cached(ctx, c, "tags", key, func() ([]domain.TagCount, error) {
		return c.next.TagHistogram(ctx)
	})
}

func (c *CatalogCache) TopStores(ctx context.Context, minReviews, limit int) ([]domain.StoreSummary, error) {
	key := func(gen string) string { return fmt.Sprintf("%sg%s:top:%d:%d", keyPrefix, gen, minReviews, limit) }
	return cached(ctx, c, "top", key, func() ([]domain.StoreSummary, error) {
		return c.next.TopStores(ctx, minReviews, limit)
	})
}

// Invalidate retires every cached view by bumping the generation.
// A load that started before the bump writes under the old generation, which nothing reads again.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	gen, err := c.client.Do(ctx, c.client.B().Incr().Key(genKey).Build()).AsInt64()
	if err != nil {
		c.logger.Warn("view cache invalidation failed", zap.Error(err))
		return
	}
	c.logger.Debug("view cache invalidated", zap.Int64("generation", gen))
}

// generation returns the current view generation. A missing counter is generation 0.
func (c *CatalogCache) generation(ctx context.Context) (string, error) {
	gen, err := c.client.Do(ctx, c.client.B().Get().Key(genKey).Build()).ToString()
	if rueidis.IsRedisNil(err) {
		return "0", nil
	}
	return gen, err
}

func cached[T any](ctx context.Context, c *CatalogCache, view string, keyFor func(gen string) string, load func() (T, error)) (T, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("view cache generation read failed", zap.Error(err))
		metrics.CacheResult(view, "error")
		return load()
	}
	key := keyFor(gen)

	data, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	switch {
	case err == nil:
		var value T
		if jerr := json.Unmarshal(data, &value); jerr == nil {
			metrics.CacheResult(view, "hit")
			return value, nil
		}
		c.logger.Warn("view cache entry undecodable", zap.String("key", key))
		metrics.CacheResult(view, "error")
	case rueidis.IsRedisNil(err):
		metrics.CacheResult(view, "miss")
	default:
		c.logger.Warn("view cache read failed", zap.String("key", key), zap.Error(err))
		metrics.CacheResult(view, "error")
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	c.store(ctx, key, value)
	return value, nil
}

func (c *CatalogCache) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("view cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	cmd := c.client.B().Set().Key(key).Value(string(data)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("view cache write failed", zap.String("key", key), zap.Error(err))
	}
}
