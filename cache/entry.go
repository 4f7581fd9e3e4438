package cache

import "reflect"

// ref addresses a slot in the entry arena. Links between entries are refs,
// not pointers, so a released slot can be reused without dangling links.
type ref int32

const (
	nilRef  ref = -1
	headRef ref = 0 // head sentinel, shared by every queue role
	tailRef ref = 1 // tail sentinel, shared by every queue role
)

// role selects which link pair of an entry a queue uses.
type role uint8

const (
	accessRole role = iota
	writeRole
	numRoles
)

type links struct {
	prev, next ref
}

// entry is a cache record stored in the arena. It carries one link pair per
// queue role so that relinking in one queue never disturbs the other.
type entry[K comparable, V any] struct {
	key K
	val V

	// Time of the last value assignment in UnixNano.
	writeTime int64

	// Weight reported by the weigher at the last assignment (0 if unused).
	weight int64

	// stale is set once an expiry notification has been issued for the
	// current value, so a reload in flight does not report it twice.
	stale bool

	link [numRoles]links
}

// setValue assigns v and refreshes the write time.
func (e *entry[K, V]) setValue(v V, now int64) {
	e.val = v
	e.writeTime = now
	e.stale = false
}

// arena owns every entry slot plus the two sentinels at headRef/tailRef.
type arena[K comparable, V any] struct {
	slots []entry[K, V]
	free  []ref
}

func newArena[K comparable, V any](capHint int) *arena[K, V] {
	a := &arena[K, V]{slots: make([]entry[K, V], 2, capHint+2)}
	for r := role(0); r < numRoles; r++ {
		a.slots[headRef].link[r] = links{prev: nilRef, next: tailRef}
		a.slots[tailRef].link[r] = links{prev: headRef, next: nilRef}
	}
	return a
}

// alloc returns a fresh, unlinked slot holding k.
func (a *arena[K, V]) alloc(k K) ref {
	var r ref
	if n := len(a.free); n > 0 {
		r = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, entry[K, V]{})
		r = ref(len(a.slots) - 1)
	}
	e := &a.slots[r]
	e.key = k
	for i := range e.link {
		e.link[i] = links{prev: nilRef, next: nilRef}
	}
	return r
}

// release zeroes the slot so the GC can reclaim its key/value.
// The slot must already be unlinked from every queue.
func (a *arena[K, V]) release(r ref) {
	a.slots[r] = entry[K, V]{}
	a.free = append(a.free, r)
}

// at returns the entry at r. The pointer is invalidated by alloc.
func (a *arena[K, V]) at(r ref) *entry[K, V] { return &a.slots[r] }

// isNil reports whether v is an absent value: a nil interface, pointer,
// map, slice, func or chan. Other kinds are never absent.
func isNil[V any](v V) bool {
	x := any(v)
	if x == nil {
		return true
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
