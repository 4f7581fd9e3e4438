package cache

// queue is a sentinel-terminated doubly linked list over arena entries,
// tagged with a role that selects which link pair it threads through.
// head.next is the most recently promoted entry, tail.prev the least.
type queue[K comparable, V any] struct {
	a    *arena[K, V]
	role role
	len  int
}

func newQueue[K comparable, V any](a *arena[K, V], r role) *queue[K, V] {
	return &queue[K, V]{a: a, role: r}
}

func (q *queue[K, V]) links(r ref) *links { return &q.a.slots[r].link[q.role] }

// linked reports whether r is currently in this queue.
func (q *queue[K, V]) linked(r ref) bool { return q.links(r).prev != nilRef }

// moveToHead unlinks r (if linked) and relinks it right after head in O(1).
func (q *queue[K, V]) moveToHead(r ref) {
	if q.links(headRef).next == r {
		return
	}
	if q.linked(r) {
		q.unlink(r)
	} else {
		q.len++
	}
	first := q.links(headRef).next
	l := q.links(r)
	l.prev, l.next = headRef, first
	q.links(first).prev = r
	q.links(headRef).next = r
}

// remove unlinks r from this queue in O(1). No-op if r is not linked.
func (q *queue[K, V]) remove(r ref) {
	if !q.linked(r) {
		return
	}
	q.unlink(r)
	q.len--
	l := q.links(r)
	l.prev, l.next = nilRef, nilRef
}

// unlink re-points r's neighbours at each other. The sentinels make every
// neighbour non-nil, so no edge cases exist for head or tail entries.
func (q *queue[K, V]) unlink(r ref) {
	l := q.links(r)
	q.links(l.prev).next = l.next
	q.links(l.next).prev = l.prev
}

// back returns the logical tail (least recently promoted entry).
func (q *queue[K, V]) back() (ref, bool) {
	r := q.links(tailRef).prev
	return r, r != headRef
}

// forEach walks from r towards the tail sentinel, stopping early if fn
// returns false. Pass headRef to visit every entry head to tail.
func (q *queue[K, V]) forEach(r ref, fn func(ref) bool) {
	if r == headRef {
		r = q.links(headRef).next
	}
	for r != tailRef && r != nilRef {
		next := q.links(r).next
		if !fn(r) {
			return
		}
		r = next
	}
}
