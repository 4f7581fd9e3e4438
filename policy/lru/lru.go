// Package lru implements the LRU access-order policy.
package lru

import "github.com/IvanBrykalov/loadingcache/policy"

// lru is a classic "move-to-front" Least-Recently-Used policy.
// It delegates queue manipulation to policy.Hooks provided by the cache.
type lru struct {
	h policy.Hooks
}

type lruPolicy struct{}

// New returns a Policy factory that constructs LRU instances.
func New() policy.Policy { return lruPolicy{} }

// New implements policy.Policy by binding the cache hooks.
func (lruPolicy) New(h policy.Hooks) policy.Instance {
	return &lru{h: h}
}

// OnAdd places the new entry at the head. LRU itself doesn't choose
// evictions; the cache enforces size/weight bounds from the tail.
func (p *lru) OnAdd(r policy.Ref) (evict policy.Ref, ok bool) {
	p.h.PushFront(r)
	return 0, false
}

// OnGet promotes the entry to most recently used.
func (p *lru) OnGet(r policy.Ref) { p.h.MoveToFront(r) }

// OnUpdate promotes the entry (writes count as use).
func (p *lru) OnUpdate(r policy.Ref) { p.h.MoveToFront(r) }

// OnRemove is a no-op for pure LRU.
func (p *lru) OnRemove(_ policy.Ref) {}
