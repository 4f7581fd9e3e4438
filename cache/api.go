package cache

import "context"

// Cache is a bounded in-process key/value cache with LRU eviction,
// optional weight-based sizing, expire-after-write and an asynchronous
// loader.
//
// Every method runs as one atomic mutation turn. The loader and all user
// callbacks (Get callbacks, OnRemove) run outside that turn, so they may
// call back into the cache.
type Cache[K comparable, V any] interface {
	// Put inserts or overwrites k→v and returns the cache for chaining.
	// A new key may trigger capacity eviction; an overwrite only triggers
	// the expiry pass (plus capacity eviction if the entry's weight grew).
	// Put panics with ErrNilValue if v is nil.
	Put(k K, v V) Cache[K, V]

	// Get delivers the value for k to cb. On a hit cb runs before Get
	// returns. On a miss or expired read with a Loader configured, cb runs
	// when the loader completes. Without a Loader cb receives ErrNotFound.
	Get(ctx context.Context, k K, cb Callback[V])

	// GetIfPresent returns the value for k without ever invoking the
	// Loader. Expired entries are removed and reported absent.
	GetIfPresent(k K) (V, bool)

	// Fetch is a blocking Get: it waits for the callback or ctx.
	Fetch(ctx context.Context, k K) (V, error)

	// Invalidate removes k with cause explicit and reports whether it was present.
	Invalidate(k K) bool

	// InvalidateAll removes every entry with cause explicit. Stats are kept.
	InvalidateAll()

	// CleanUp runs the proactive expiry pass without writing.
	CleanUp()

	// Len returns the number of resident entries.
	Len() int

	// Weight returns the sum of entry weights (0 unless a Weigher is set).
	Weight() int64

	// Stats returns a snapshot of the counters (zero unless RecordStats).
	Stats() Stats

	// Keys returns resident keys from most to least recently used. Expired
	// entries still awaiting a reload are left out.
	Keys() []K
}
