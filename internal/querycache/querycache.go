// Package querycache memoizes expensive read queries for a bounded time and drops them by tag
// when a write touches the underlying rows.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/metrics"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Invalidation tags
const (
	TagCities = "cities"
	TagStats  = "stats"
	TagUsers  = "users"
)

// CityTag covers every entry derived from a single city
func CityTag(id int64) string { return "city:" + strconv.FormatInt(id, 10) }

// UserTag covers every entry derived from a single user
func UserTag(id int64) string { return "user:" + strconv.FormatInt(id, 10) }

// CommentsTag covers the comment listing of a city
func CommentsTag(cityID int64) string { return "comments:" + strconv.FormatInt(cityID, 10) }

// Cache is a tagged TTL cache of JSON-encoded query results.
// It must never back uniqueness checks or authentication.
type Cache struct {
	cache     *cache.Cache[any]
	storeType string
	group     singleflight.Group
	logger    *zap.Logger

	// generation changes on every invalidation so a load that raced with a write is not stored
	generation atomic.Uint64
}

// New wraps an arbitrary gocache store
func New(s store.StoreInterface, logger *zap.Logger) *Cache {
	return &Cache{
		cache:     cache.New[any](s),
		storeType: s.GetType(),
		logger:    logger,
	}
}

// NewMemory creates a process-local cache
func NewMemory(logger *zap.Logger) *Cache {
	client := gocache.New(5*time.Minute, 10*time.Minute)
	return New(go_store.NewGoCache(client), logger)
}

// NewRedis creates a cache shared by every instance connected to client
func NewRedis(client *redis.Client, logger *zap.Logger) *Cache {
	return New(redis_store.NewRedis(client), logger)
}

// NewFromConfig selects the store named by cfg.Type
func NewFromConfig(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (*Cache, error) {
	if cfg.Type != config.CacheTypeRedis {
		return NewMemory(logger), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return NewRedis(client, logger), nil
}

// Key builds the cache key of an operation call
func Key(op string, args any) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key for %s: %w", op, err)
	}
	return op + ":" + string(data), nil
}

// Load returns the cached result of op(args) or calls loader once across concurrent callers,
// caching its result for ttl under tags. Loader errors are returned and never cached.
func Load[T any](ctx context.Context, c *Cache, op string, args any, ttl time.Duration, tags []string, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	key, err := Key(op, args)
	if err != nil {
		return zero, err
	}

	var out T
	if c.lookup(ctx, key, &out) {
		metrics.QueryCacheRequests.WithLabelValues(op, "hit").Inc()
		return out, nil
	}
	metrics.QueryCacheRequests.WithLabelValues(op, "miss").Inc()

	// the shared load runs detached from the first caller's cancellation; each caller
	// stops waiting when its own ctx is done
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)

		var cached T
		if c.lookup(loadCtx, key, &cached) {
			return cached, nil
		}

		gen := c.generation.Load()
		val, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		if c.generation.Load() == gen {
			c.store(loadCtx, key, val, ttl, tags)
		}
		return val, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			metrics.QueryCacheLoadErrors.WithLabelValues(op).Inc()
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *Cache) lookup(ctx context.Context, key string, dest any) bool {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return false
	}

	var data []byte
	switch v := raw.(type) {
	case []byte:
		data = v
	case string:
		// redis hands values back as strings
		data = []byte(v)
	default:
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, val any, ttl time.Duration, tags []string) {
	data, err := json.Marshal(val)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	opts := []store.Option{store.WithExpiration(ttl)}
	if len(tags) > 0 {
		opts = append(opts, store.WithTags(tags))
	}
	if err := c.cache.Set(ctx, key, data, opts...); err != nil {
		c.logger.Warn("Failed to store cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every entry carrying any of tags. Failures are logged, not returned:
// entries still expire with their ttl.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) {
	c.generation.Add(1)
	for _, tag := range tags {
		// one call per tag: a store stops at the first tag it has never seen
		if err := c.cache.Invalidate(ctx, store.WithInvalidateTags([]string{tag})); err != nil {
			c.logger.Warn("Failed to invalidate cache tag", zap.String("tag", tag), zap.Error(err))
		}
		metrics.QueryCacheInvalidations.WithLabelValues(tagFamily(tag)).Inc()
	}
}

// Clear drops every entry
func (c *Cache) Clear(ctx context.Context) error {
	c.generation.Add(1)
	return c.cache.Clear(ctx)
}

// Stats holds the counters of the underlying store
type Stats struct {
	Type          string `json:"type"`
	Hits          int    `json:"hits"`
	Misses        int    `json:"misses"`
	SetSuccess    int    `json:"setSuccess"`
	SetError      int    `json:"setError"`
	Invalidations int    `json:"invalidations"`
}

// Stats reads the hit and miss counters kept by gocache's codec
func (c *Cache) Stats() Stats {
	s := statsFromCodec(c.cache.GetCodec().GetStats())
	s.Type = c.storeType
	return s
}

func statsFromCodec(s *codec.Stats) Stats {
	return Stats{
		Hits:          s.Hits,
		Misses:        s.Miss,
		SetSuccess:    s.SetSuccess,
		SetError:      s.SetError,
		Invalidations: s.InvalidateSuccess,
	}
}

func tagFamily(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[:i]
	}
	return tag
}
