// Package cache provides a Redis backed corpus cache shared between
// service replicas.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/clubstats/internal/domain/model"
	"github.com/okian/clubstats/pkg/logger"
	"github.com/okian/clubstats/pkg/metrics"
)

const (
	defaultPrefix = "clubstats:corpus:"
	defaultTTL    = 5 * time.Minute
	scanBatch     = 100
)

// ErrConnect reports a failed connection check.
var ErrConnect = errors.New("redis connection failed")

// client is the subset of *redis.Client the cache uses.
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithTTL sets how long corpora live in Redis.
func WithTTL(ttl time.Duration) Option {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *RedisCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets the cache logger.
func WithLogger(l logger.Logger) Option {
	return func(c *RedisCache) {
		if l != nil {
			c.log = l
		}
	}
}

// RedisCache stores corpora as JSON arrays with a TTL. Redis errors are
// logged and treated as misses so the resolver falls back to the provider.
type RedisCache struct {
	client client
	prefix string
	ttl    time.Duration
	log    logger.Logger
}

// NewClient connects to addr and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)
	}
	return c, nil
}

// New wraps c.
func New(c client, opts ...Option) *RedisCache {
	rc := &RedisCache{client: c, prefix: defaultPrefix, ttl: defaultTTL, log: logger.Nop()}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

func (c *RedisCache) key(t model.EntityType) string {
	return c.prefix + string(t)
}

// Get returns the cached corpus for t.
func (c *RedisCache) Get(ctx context.Context, t model.EntityType) ([]string, bool) {
	data, err := c.client.Get(ctx, c.key(t)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn(ctx, "redis corpus read failed", logger.String("type", string(t)), logger.Error(err))
		metrics.RecordErrorByType("redis_read", "low")
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		c.log.Warn(ctx, "redis corpus entry corrupt", logger.String("type", string(t)), logger.Error(err))
		return nil, false
	}
	return names, true
}

// Set stores names for t.
func (c *RedisCache) Set(ctx context.Context, t model.EntityType, names []string) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(t), data, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "redis corpus write failed", logger.String("type", string(t)), logger.Error(err))
		metrics.RecordErrorByType("redis_write", "low")
	}
}

// Invalidate removes the corpus for t.
func (c *RedisCache) Invalidate(ctx context.Context, t model.EntityType) {
	if err := c.client.Del(ctx, c.key(t)).Err(); err != nil {
		c.log.Warn(ctx, "redis corpus delete failed", logger.String("type", string(t)), logger.Error(err))
	}
}

// Clear removes every corpus under the prefix.
func (c *RedisCache) Clear(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			c.log.Warn(ctx, "redis corpus scan failed", logger.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn(ctx, "redis corpus delete failed", logger.Error(err))
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
