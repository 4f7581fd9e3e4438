package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order[K comparable, V any](q *queue[K, V]) []K {
	var keys []K
	q.forEach(headRef, func(r ref) bool {
		keys = append(keys, q.a.at(r).key)
		return true
	})
	return keys
}

func TestQueue_MoveToHeadAndRemove(t *testing.T) {
	t.Parallel()

	a := newArena[string, int](4)
	q := newQueue(a, accessRole)

	ra, rb, rc := a.alloc("a"), a.alloc("b"), a.alloc("c")
	q.moveToHead(ra)
	q.moveToHead(rb)
	q.moveToHead(rc)
	assert.Equal(t, []string{"c", "b", "a"}, order(q))
	assert.Equal(t, 3, q.len)

	back, ok := q.back()
	require.True(t, ok)
	assert.Equal(t, ra, back)

	// promote the tail; b becomes the tail
	q.moveToHead(ra)
	assert.Equal(t, []string{"a", "c", "b"}, order(q))

	// removing the tail reseats it on the previous entry
	q.remove(rb)
	back, _ = q.back()
	assert.Equal(t, rc, back)
	assert.False(t, q.linked(rb))

	// removing twice is a no-op
	q.remove(rb)
	assert.Equal(t, 2, q.len)

	q.remove(ra)
	q.remove(rc)
	_, ok = q.back()
	assert.False(t, ok)
	assert.Empty(t, order(q))
}

func TestQueue_RolesAreIndependent(t *testing.T) {
	t.Parallel()

	a := newArena[string, int](4)
	access := newQueue(a, accessRole)
	write := newQueue(a, writeRole)

	ra, rb := a.alloc("a"), a.alloc("b")
	for _, r := range []ref{ra, rb} {
		access.moveToHead(r)
		write.moveToHead(r)
	}
	access.moveToHead(ra)

	assert.Equal(t, []string{"a", "b"}, order(access))
	assert.Equal(t, []string{"b", "a"}, order(write))

	access.remove(rb)
	assert.Equal(t, []string{"a"}, order(access))
	assert.Equal(t, []string{"b", "a"}, order(write))
	assert.True(t, write.linked(rb))
}

func TestQueue_ForEachFromEntry(t *testing.T) {
	t.Parallel()

	a := newArena[int, int](4)
	q := newQueue(a, writeRole)
	refs := make([]ref, 4)
	for i := range refs {
		refs[i] = a.alloc(i)
		q.moveToHead(refs[i])
	}

	var seen []int
	q.forEach(refs[2], func(r ref) bool {
		seen = append(seen, a.at(r).key)
		return a.at(r).key != 1
	})
	assert.Equal(t, []int{2, 1}, seen)
}

func TestArena_ReusesReleasedSlots(t *testing.T) {
	t.Parallel()

	a := newArena[string, []byte](0)
	r := a.alloc("a")
	a.at(r).val = []byte("x")
	a.release(r)

	r2 := a.alloc("b")
	assert.Equal(t, r, r2)
	assert.Nil(t, a.at(r2).val)
	assert.Equal(t, links{prev: nilRef, next: nilRef}, a.at(r2).link[accessRole])
}

func TestIsNil(t *testing.T) {
	t.Parallel()

	var p *int
	var m map[string]int
	var s []byte
	var e error

	assert.True(t, isNil(p))
	assert.True(t, isNil(m))
	assert.True(t, isNil(s))
	assert.True(t, isNil(e))
	assert.False(t, isNil(0))
	assert.False(t, isNil(""))
	assert.False(t, isNil([]byte{}))
}
