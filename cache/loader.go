package cache

import (
	"context"
	"sync"
	"time"

	"github.com/IvanBrykalov/loadingcache/internal/logattr"
)

// LoaderFunc adapts a blocking fetch function to a Loader. Each call runs
// fn on its own goroutine; loads are neither coalesced nor cancelled by
// the cache, so fn should honour ctx itself.
func LoaderFunc[K comparable, V any](fn func(ctx context.Context, k K) (V, error)) Loader[K, V] {
	return func(ctx context.Context, k K, done Completion[V]) {
		go func() { done(fn(ctx, k)) }()
	}
}

// load invokes the Loader for k and reconciles its result in a new turn.
// Concurrent loads of the same key are independent.
func (c *cache[K, V]) load(ctx context.Context, k K, cb Callback[V]) {
	start := time.Now()
	var once sync.Once
	done := func(v V, err error) {
		first := false
		once.Do(func() {
			first = true
			c.complete(k, v, err, time.Since(start), cb)
		})
		if !first {
			c.log.Warn("loader completed more than once; result ignored", logattr.Key(k), logattr.Error(err))
		}
	}
	c.opt.Loader(ctx, k, done)
}

// complete stores a successful load as a write (create or overwrite) and
// hands the outcome to cb. A failed load leaves the cache untouched.
func (c *cache[K, V]) complete(k K, v V, err error, d time.Duration, cb Callback[V]) {
	if err == nil && isNil(v) {
		err = nilValueError(k)
	}

	c.mu.Lock()
	c.stats.load(err)
	c.opt.Metrics.Load(d, err)
	if err == nil {
		c.putLocked(k, v)
	}
	c.unlock()

	if err != nil {
		c.log.Debug("load failed", logattr.Key(k), logattr.Duration(d), logattr.Error(err))
		var zero V
		cb(zero, err)
		return
	}
	cb(v, nil)
}

// Fetch blocks until Get's callback fires or ctx is done. When ctx ends
// first the load keeps running and its result is still cached.
func (c *cache[K, V]) Fetch(ctx context.Context, k K) (V, error) {
	type result struct {
		v   V
		err error
	}
	ch := make(chan result, 1)
	c.Get(ctx, k, func(v V, err error) { ch <- result{v, err} })

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
