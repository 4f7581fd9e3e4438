// Package cache provides a bounded, generic, in-process loading cache with
// LRU eviction, optional weight-based sizing, expire-after-write, an
// asynchronous loader, removal notifications and hit/miss statistics.
//
// Design
//
//   - Storage: entries live in an arena addressed by int32 refs. Each entry
//     carries two link pairs, one per queue role, so the access queue and
//     the write queue thread through the same entries independently. Both
//     queues are terminated by head/tail sentinels that are never removed.
//
//   - Access queue: head is most recently used, tail least. Reads and writes
//     promote through the policy package (LRU by default). When MaximumSize
//     or MaximumWeight is exceeded after an insert, entries are evicted from
//     the tail with cause RemovalSize.
//
//   - Write queue: allocated only with ExpireAfterWrite. Head is the newest
//     write, tail the oldest. Every write first drops expired entries from
//     the tail (RemovalExpired), so stale data is bounded even without reads.
//     Reads also expire lazily.
//
//   - Weight: Options.Weigher reports a weight per entry and MaximumWeight
//     bounds the sum. Size and weight bounds are mutually exclusive.
//
//   - Loader: Get invokes Options.Loader on a miss or an expired read. The
//     loader calls its completion exactly once, synchronously or from any
//     goroutine; a successful result is written back as a Put. Loads are not
//     coalesced: each read in the miss window starts its own load.
//
//   - Notifications: OnRemove(k, v, cause) is called once per removed entry,
//     after the mutation that removed it, so it may call back into the cache.
//
//   - Stats: with RecordStats, Stats() reports request/hit/miss, load and
//     eviction counters. They survive InvalidateAll.
//
// Basic usage
//
//	c := cache.MustNew(cache.Options[string, []byte]{MaximumSize: 10_000})
//	c.Put("a", []byte("1")).Put("b", []byte("2"))
//	if v, ok := c.GetIfPresent("a"); ok {
//	    _ = v
//	}
//	c.Invalidate("a")
//
// With a loader
//
//	c := cache.MustNew(cache.Options[string, string]{
//	    MaximumSize:      1024,
//	    ExpireAfterWrite: time.Minute,
//	    Loader: cache.LoaderFunc(func(ctx context.Context, k string) (string, error) {
//	        return db.Lookup(ctx, k)
//	    }),
//	})
//	c.Get(ctx, "key", func(v string, err error) { ... })
//	v, err := c.Fetch(ctx, "key") // blocking form
//
// Weighted
//
//	c := cache.MustNew(cache.Options[string, []byte]{
//	    MaximumWeight: 64 << 20,
//	    Weigher:       func(_ string, v []byte) int64 { return int64(len(v)) },
//	})
//
// Exporting metrics
//
//	m := prom.New(nil, "app", "cache", nil) // implements cache.Metrics
//	c := cache.MustNew(cache.Options[string, []byte]{MaximumSize: 10_000, Metrics: m})
package cache
