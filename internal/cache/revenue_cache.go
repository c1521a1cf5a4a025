// Package cache holds short-lived copies of revenue aggregates.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RevenueCache stores revenue totals by key. Invalidate makes every stored total unreachable.
// Get also returns the entry a freshly computed total must be stored under: it is bound to
// the version current at lookup, so a Set racing an Invalidate stores nothing readable.
// An empty entry means the lookup failed and Set does nothing.
// Implementations treat backend failures as cache misses.
type RevenueCache interface {
	Get(ctx context.Context, key string) (total decimal.Decimal, entry string, ok bool)
	Set(ctx context.Context, entry string, total decimal.Decimal)
	Invalidate(ctx context.Context)
}

// NopRevenueCache never hits.
type NopRevenueCache struct{}

func (NopRevenueCache) Get(context.Context, string) (decimal.Decimal, string, bool) {
	return decimal.Zero, "", false
}
func (NopRevenueCache) Set(context.Context, string, decimal.Decimal) {}
func (NopRevenueCache) Invalidate(context.Context)                   {}

// RedisRevenueCache namespaces entries by a version counter; Invalidate bumps the
// counter so old entries stop being read and expire on their own TTL.
type RedisRevenueCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRevenueCache creates a RedisRevenueCache with the given key prefix and entry TTL.
func NewRedisRevenueCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisRevenueCache {
	if prefix == "" {
		prefix = "revenue"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisRevenueCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisRevenueCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *RedisRevenueCache) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisRevenueCache) entryKey(ctx context.Context, key string) (string, error) {
	v, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return c.prefix + ":" + strconv.FormatInt(v, 10) + ":" + key, nil
}

func (c *RedisRevenueCache) Get(ctx context.Context, key string) (decimal.Decimal, string, bool) {
	entry, err := c.entryKey(ctx, key)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("revenue cache: version lookup failed")
		return decimal.Zero, "", false
	}
	raw, err := c.rdb.Get(ctx, entry).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("key", entry).Msg("revenue cache: get failed")
		}
		return decimal.Zero, entry, false
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, entry, false
	}
	return total, entry, true
}

// Set writes under entry as returned by Get. After an Invalidate that entry belongs to
// a retired version, so the write is never read and only waits out its TTL.
func (c *RedisRevenueCache) Set(ctx context.Context, entry string, total decimal.Decimal) {
	if entry == "" {
		return
	}
	if err := c.rdb.Set(ctx, entry, total.String(), c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", entry).Msg("revenue cache: set failed")
	}
}

func (c *RedisRevenueCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		log.Warn().Err(err).Msg("revenue cache: invalidate failed")
	}
}
