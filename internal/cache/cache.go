// Package cache keeps a short-lived copy of the gym event list.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/octobees/fitness-studio/api/internal/entity"
	"github.com/octobees/fitness-studio/api/internal/metrics"
)

const eventListKey = "fitness:gym_events:list"

// EventListCache stores the ordered gym event list. Failures are logged and
// treated as misses.
type EventListCache interface {
	Get(ctx context.Context) ([]entity.GymEvent, bool)
	Set(ctx context.Context, events []entity.GymEvent)
	Invalidate(ctx context.Context)
}

// redisClient is the part of redis.Cmdable used here.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ redisClient = (*redis.Client)(nil)

// Connect opens a redis client from a redis:// URL and pings it.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisEventListCache is the redis-backed EventListCache.
type RedisEventListCache struct {
	client redisClient
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisEventListCache wraps client. A nil logger discards cache errors.
func NewRedisEventListCache(client redisClient, ttl time.Duration, log *zap.Logger) *RedisEventListCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisEventListCache{client: client, ttl: ttl, log: log}
}

func (c *RedisEventListCache) Get(ctx context.Context) ([]entity.GymEvent, bool) {
	raw, err := c.client.Get(ctx, eventListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("read gym event cache", zap.Error(err))
		}
		metrics.RecordCacheLookup(false)
		return nil, false
	}

	var events []entity.GymEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		c.log.Warn("decode gym event cache", zap.Error(err))
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	metrics.RecordCacheLookup(true)
	return events, true
}

func (c *RedisEventListCache) Set(ctx context.Context, events []entity.GymEvent) {
	raw, err := json.Marshal(events)
	if err != nil {
		c.log.Warn("encode gym event cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, eventListKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("write gym event cache", zap.Error(err))
	}
}

func (c *RedisEventListCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, eventListKey).Err(); err != nil {
		c.log.Warn("invalidate gym event cache", zap.Error(err))
	}
}

// Noop is used when no redis URL is configured.
type Noop struct{}

func (Noop) Get(context.Context) ([]entity.GymEvent, bool) { return nil, false }
func (Noop) Set(context.Context, []entity.GymEvent)        {}
func (Noop) Invalidate(context.Context)                    {}

var (
	_ EventListCache = (*RedisEventListCache)(nil)
	_ EventListCache = Noop{}
)
