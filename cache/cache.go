package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/IvanBrykalov/loadingcache/internal/logattr"
	"github.com/IvanBrykalov/loadingcache/policy"
	"github.com/IvanBrykalov/loadingcache/policy/lru"
)

// cache is the controller: it owns the entry storage and the stats, which
// have independent lifecycles (InvalidateAll replaces only the storage).
type cache[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu      sync.Mutex
	st      *storage[K, V]
	stats   statsRecorder
	pending []removal[K, V] // listener calls deferred to the end of the turn

	opt Options[K, V]
	log *slog.Logger
}

// storage is everything InvalidateAll throws away.
type storage[K comparable, V any] struct {
	m      map[K]ref
	a      *arena[K, V]
	access *queue[K, V]
	write  *queue[K, V] // nil unless ExpireAfterWrite is set
	pol    policy.Instance
	weight int64
}

type removal[K comparable, V any] struct {
	k     K
	v     V
	cause RemovalCause
}

// New validates opt and constructs a cache.
// Defaults:
//   - nil Policy  -> LRU
//   - nil Metrics -> NoopMetrics
//   - nil Logger  -> discard
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New()
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}

	c := &cache[K, V]{
		opt:   opt,
		stats: statsRecorder{enabled: opt.RecordStats},
		log:   opt.Logger.With(logattr.Component("cache")),
	}
	c.st = c.newStorage()
	return c, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	c, err := New(opt)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *cache[K, V]) newStorage() *storage[K, V] {
	hint := 0
	if c.opt.MaximumSize > 0 {
		hint = int(min(c.opt.MaximumSize, 1024))
	}
	st := &storage[K, V]{
		m: make(map[K]ref, hint),
		a: newArena[K, V](hint),
	}
	st.access = newQueue(st.a, accessRole)
	if c.opt.ExpireAfterWrite > 0 {
		st.write = newQueue(st.a, writeRole)
	}
	st.pol = c.opt.Policy.New(storageHooks[K, V]{st: st})
	return st
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Put(k K, v V) Cache[K, V] {
	if isNil(v) {
		panic(nilValueError(k))
	}
	c.mu.Lock()
	c.putLocked(k, v)
	c.unlock()
	return c
}

func (c *cache[K, V]) Get(ctx context.Context, k K, cb Callback[V]) {
	if cb == nil {
		cb = func(V, error) {}
	}
	c.mu.Lock()
	v, res := c.readLocked(k, c.opt.Loader != nil)
	c.unlock()

	switch res {
	case readHit:
		cb(v, nil)
	case readMiss:
		cb(v, ErrNotFound)
	case readLoad:
		c.load(ctx, k, cb)
	}
}

func (c *cache[K, V]) GetIfPresent(k K) (V, bool) {
	c.mu.Lock()
	v, res := c.readLocked(k, false)
	c.unlock()
	return v, res == readHit
}

func (c *cache[K, V]) Invalidate(k K) bool {
	c.mu.Lock()
	r, ok := c.st.m[k]
	if ok {
		c.removeLocked(r, RemovalExplicit)
		c.opt.Metrics.Size(len(c.st.m), c.st.weight)
	}
	c.unlock()
	return ok
}

func (c *cache[K, V]) InvalidateAll() {
	c.mu.Lock()
	st := c.st
	st.access.forEach(headRef, func(r ref) bool {
		e := st.a.at(r)
		if !e.stale {
			c.notifyLocked(e.key, e.val, RemovalExplicit)
		}
		c.opt.Metrics.Removal(RemovalExplicit)
		return true
	})
	if n := len(st.m); n > 0 && c.log.Enabled(context.Background(), slog.LevelDebug) {
		c.log.Debug("cache invalidated", logattr.Count("entries", n))
	}
	c.st = c.newStorage()
	c.opt.Metrics.Size(0, 0)
	c.unlock()
}

func (c *cache[K, V]) CleanUp() {
	c.mu.Lock()
	c.cleanupLocked(false)
	c.unlock()
}

func (c *cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.st.m)
}

func (c *cache[K, V]) Weight() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.weight
}

func (c *cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.s
}

func (c *cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	keys := make([]K, 0, len(c.st.m))
	c.st.access.forEach(headRef, func(r ref) bool {
		if e := c.st.a.at(r); !c.expired(e, now) {
			keys = append(keys, e.key)
		}
		return true
	})
	return keys
}

// -------------------- internals (mu held) --------------------

type readResult uint8

const (
	readHit readResult = iota
	readMiss
	readLoad
)

// readLocked classifies a read of k and applies its side effects: stats,
// promotion on hit, lazy expiry when no load will follow.
func (c *cache[K, V]) readLocked(k K, canLoad bool) (V, readResult) {
	var zero V
	st := c.st

	r, ok := st.m[k]
	if !ok {
		c.stats.miss()
		c.opt.Metrics.Miss()
		if canLoad {
			return zero, readLoad
		}
		return zero, readMiss
	}

	e := st.a.at(r)
	if !c.expired(e, c.now()) {
		st.pol.OnGet(policy.Ref(r))
		c.stats.hit()
		c.opt.Metrics.Hit()
		return e.val, readHit
	}

	c.opt.Metrics.Miss()
	if canLoad {
		// The stale entry stays resident until the reload overwrites it.
		c.stats.request()
		if !e.stale {
			e.stale = true
			c.notifyLocked(e.key, e.val, RemovalExpired)
		}
		return zero, readLoad
	}
	c.stats.miss()
	c.removeLocked(r, RemovalExpired)
	c.opt.Metrics.Size(len(st.m), st.weight)
	return zero, readMiss
}

// putLocked writes k→v. A new entry is linked at the head of both queues and
// may trigger capacity eviction; an overwrite re-promotes the entry and runs
// the expiry pass, plus capacity eviction if the entry got heavier.
func (c *cache[K, V]) putLocked(k K, v V) {
	st := c.st
	now := c.now()
	w := c.weigh(k, v)

	if r, ok := st.m[k]; ok {
		e := st.a.at(r)
		grew := w > e.weight
		st.weight += w - e.weight
		e.setValue(v, now)
		e.weight = w
		st.pol.OnUpdate(policy.Ref(r))
		if st.write != nil {
			st.write.moveToHead(r)
		}
		c.cleanupLocked(grew)
		return
	}

	r := st.a.alloc(k)
	e := st.a.at(r)
	e.setValue(v, now)
	e.weight = w
	st.m[k] = r
	st.weight += w
	if st.write != nil {
		st.write.moveToHead(r)
	}
	if ev, ok := st.pol.OnAdd(policy.Ref(r)); ok {
		c.removeLocked(ref(ev), RemovalSize)
	}
	c.cleanupLocked(true)
}

// cleanupLocked drops expired entries from the write-queue tail, then, if
// capacity is set, evicts from the access-queue tail until within bounds.
func (c *cache[K, V]) cleanupLocked(capacity bool) {
	st := c.st
	if st.write != nil {
		now := c.now()
		for {
			r, ok := st.write.back()
			if !ok || !c.expired(st.a.at(r), now) {
				break
			}
			c.removeLocked(r, RemovalExpired)
		}
	}
	if capacity {
		for c.overCapacity() {
			r, ok := st.access.back()
			if !ok {
				break
			}
			c.removeLocked(r, RemovalSize)
		}
	}
	c.opt.Metrics.Size(len(st.m), st.weight)
}

func (c *cache[K, V]) overCapacity() bool {
	if c.opt.MaximumSize > 0 && int64(len(c.st.m)) > c.opt.MaximumSize {
		return true
	}
	return c.opt.MaximumWeight > 0 && c.st.weight > c.opt.MaximumWeight
}

// removeLocked unlinks r from the map and both queues, releases its slot and
// queues the removal notification. An entry whose expiry was already reported
// (a reload is in flight) is not reported again, whatever the cause.
func (c *cache[K, V]) removeLocked(r ref, cause RemovalCause) {
	st := c.st
	e := st.a.at(r)
	k, v := e.key, e.val

	st.pol.OnRemove(policy.Ref(r))
	st.access.remove(r)
	if st.write != nil {
		st.write.remove(r)
	}
	delete(st.m, k)
	st.weight -= e.weight
	if !e.stale {
		c.notifyLocked(k, v, cause)
	}
	st.a.release(r)

	c.stats.removal(cause)
	c.opt.Metrics.Removal(cause)
	if c.log.Enabled(context.Background(), slog.LevelDebug) {
		c.log.Debug("entry removed", logattr.Key(k), logattr.Cause(cause))
	}
}

func (c *cache[K, V]) notifyLocked(k K, v V, cause RemovalCause) {
	if c.opt.OnRemove != nil {
		c.pending = append(c.pending, removal[K, V]{k: k, v: v, cause: cause})
	}
}

// unlock ends a mutation turn and delivers its removal notifications.
func (c *cache[K, V]) unlock() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, n := range pending {
		c.opt.OnRemove(n.k, n.v, n.cause)
	}
}

func (c *cache[K, V]) expired(e *entry[K, V], now int64) bool {
	ttl := c.opt.ExpireAfterWrite
	return ttl > 0 && now-e.writeTime > int64(ttl)
}

func (c *cache[K, V]) weigh(k K, v V) int64 {
	if c.opt.Weigher == nil {
		return 0
	}
	return max(c.opt.Weigher(k, v), 0)
}

func (c *cache[K, V]) now() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// -------------------- policy hooks --------------------

// storageHooks adapts the access queue to policy.Hooks.
type storageHooks[K comparable, V any] struct{ st *storage[K, V] }

func (h storageHooks[K, V]) MoveToFront(r policy.Ref) { h.st.access.moveToHead(ref(r)) }
func (h storageHooks[K, V]) PushFront(r policy.Ref)   { h.st.access.moveToHead(ref(r)) }
func (h storageHooks[K, V]) Remove(r policy.Ref)      { h.st.access.remove(ref(r)) }
func (h storageHooks[K, V]) Len() int                 { return h.st.access.len }
func (h storageHooks[K, V]) Back() (policy.Ref, bool) {
	r, ok := h.st.access.back()
	return policy.Ref(r), ok
}
