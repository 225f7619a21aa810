// Package cache keeps recent article list pages in Redis in front of a
// backend.Service. Writes bump a generation counter so stale pages are never
// served after a mutation made through this process.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"articlehub/internal/backend"
	"articlehub/internal/metrics"
	"articlehub/internal/model"
	"articlehub/internal/query"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultTTL = 2 * time.Minute

	genKey    = "articles:gen"
	keyPrefix = "articles:list"
)

// NewRedisClient connects to addr and checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// ListCache is a backend.Service that caches List results. Redis failures
// are logged and the call goes straight to the wrapped service.
type ListCache struct {
	next    backend.Service
	rdb     *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics metrics.Recorder
}

func New(next backend.Service, rdb *redis.Client, ttl time.Duration, logger *zap.Logger, rec metrics.Recorder) *ListCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &ListCache{
		next:    next,
		rdb:     rdb,
		ttl:     ttl,
		logger:  logger.With(zap.String("component", "cache")),
		metrics: rec,
	}
}

func listKey(gen int64, f model.Filter) string {
	return fmt.Sprintf("%s:%d:%d:%d:%s:%s", keyPrefix, gen, f.Page, f.Limit, strconv.Quote(f.Search), f.Status)
}

func (c *ListCache) List(ctx context.Context, f model.Filter) (*model.ArticlePage, error) {
	f = query.Normalize(f)

	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("Cache unavailable", zap.Error(err))
		return c.next.List(ctx, f)
	}
	key := listKey(gen, f)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var page model.ArticlePage
		jsonErr := json.Unmarshal(data, &page)
		if jsonErr == nil {
			c.metrics.RecordCacheLookup(true)
			return &page, nil
		}
		c.logger.Warn("Ignoring corrupt cache entry", zap.String("key", key), zap.Error(jsonErr))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.RecordCacheLookup(false)

	page, err := c.next.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(page); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return page, nil
}

func (c *ListCache) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	article, err := c.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return article, nil
}

func (c *ListCache) Update(ctx context.Context, id int, in model.ArticleInput) (*model.Article, error) {
	article, err := c.next.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return article, nil
}

func (c *ListCache) Delete(ctx context.Context, id int) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// invalidate moves every reader to a fresh key space. Old pages expire on
// their own TTL.
func (c *ListCache) invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}
