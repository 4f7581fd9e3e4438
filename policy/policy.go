// Package policy defines the contract between the cache controller and an
// access-order policy. A policy decides how resident entries are promoted in
// the access queue; the controller owns the key->entry map, the write queue,
// and the actual removal of entries.
package policy

// Ref is an opaque handle to a resident cache entry. Refs are only valid
// for the duration of the hook call that received them.
type Ref int32

// Hooks expose O(1) access-queue operations that a policy can use.
// Implementations are provided by the cache.
//
// Concurrency: all hook calls happen inside a cache mutation turn.
// Important: hooks manage only the access queue; the cache owns the map.
type Hooks interface {
	// MoveToFront promotes the entry to most recently used.
	MoveToFront(Ref)
	// PushFront links a new entry at the head (used on admission).
	PushFront(Ref)
	// Remove detaches the entry from the access queue.
	Remove(Ref)
	// Back returns the least recently used entry, or false if empty.
	Back() (Ref, bool)
	// Len returns the number of resident entries.
	Len() int
}

// Instance is a policy bound to one cache's hooks.
//
// Semantics:
//   - OnAdd may return an eviction candidate. The cache removes it with
//     cause size and subsequently calls OnRemove for it.
//   - OnGet/OnUpdate typically promote the entry.
//   - OnRemove notifies the policy before the cache unlinks the entry.
type Instance interface {
	OnAdd(Ref) (evict Ref, ok bool)
	OnGet(Ref)
	OnUpdate(Ref)
	OnRemove(Ref)
}

// Policy is a factory creating an Instance bound to a cache's hooks.
// InvalidateAll rebuilds the access queue and asks for a fresh Instance.
type Policy interface {
	New(Hooks) Instance
}
