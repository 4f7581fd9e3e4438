// Package redisloader provides a cache.Loader that reads values from Redis.
//
// The cache itself stays in-process; Redis is only the source of truth the
// loader falls back to on a miss or an expired read.
package redisloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IvanBrykalov/loadingcache/cache"
)

// Getter is the subset of *redis.Client the loader needs.
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Options configures the loader.
type Options struct {
	// Prefix is prepended to every cache key to form the Redis key.
	Prefix string
	// Timeout bounds each GET (0 = only the caller's ctx applies).
	Timeout time.Duration
}

// String is the identity decoder.
func String(raw string) (string, error) { return raw, nil }

// New returns a Loader fetching keys from client and turning the raw string
// into a value with decode. A missing Redis key is reported as an error
// wrapping cache.ErrNotFound; nothing is cached.
func New[V any](client Getter, decode func(raw string) (V, error), opt Options) cache.Loader[string, V] {
	return cache.LoaderFunc(func(ctx context.Context, k string) (V, error) {
		var zero V
		if opt.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opt.Timeout)
			defer cancel()
		}

		raw, err := client.Get(ctx, opt.Prefix+k).Result()
		if errors.Is(err, redis.Nil) {
			return zero, fmt.Errorf("redisloader: %w: %s", cache.ErrNotFound, k)
		}
		if err != nil {
			return zero, fmt.Errorf("redisloader: get %q: %w", k, err)
		}
		v, err := decode(raw)
		if err != nil {
			return zero, fmt.Errorf("redisloader: decode %q: %w", k, err)
		}
		return v, nil
	})
}

// Dial creates a client and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redisloader: ping %s: %w", addr, err)
	}
	return c, nil
}
