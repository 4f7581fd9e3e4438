package lru

import (
	"testing"

	"github.com/IvanBrykalov/loadingcache/policy"
)

// --- test doubles ---

type mockHooks struct {
	pushFrontCnt   int
	moveToFrontCnt int
	removeCnt      int

	lastPush policy.Ref
	lastMove policy.Ref
	lastRem  policy.Ref

	lenVal  int
	backVal policy.Ref
}

func (h *mockHooks) MoveToFront(r policy.Ref) { h.moveToFrontCnt++; h.lastMove = r }
func (h *mockHooks) PushFront(r policy.Ref)   { h.pushFrontCnt++; h.lastPush = r }
func (h *mockHooks) Remove(r policy.Ref)      { h.removeCnt++; h.lastRem = r }
func (h *mockHooks) Back() (policy.Ref, bool) { return h.backVal, h.lenVal > 0 }
func (h *mockHooks) Len() int                 { return h.lenVal }

// --- tests ---

// OnAdd should push the entry to the head and never propose an eviction.
func TestLRU_OnAdd_PushFrontAndNoEvict(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	if _, ok := p.OnAdd(7); ok {
		t.Fatal("OnAdd must not return an evict candidate for LRU")
	}
	if h.pushFrontCnt != 1 || h.lastPush != 7 {
		t.Fatalf("OnAdd must call PushFront exactly once with the ref")
	}
	if h.moveToFrontCnt != 0 || h.removeCnt != 0 {
		t.Fatalf("OnAdd must not call MoveToFront/Remove")
	}
}

// OnGet should promote the entry.
func TestLRU_OnGet_MoveToFront(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	p.OnGet(3)

	if h.moveToFrontCnt != 1 || h.lastMove != 3 {
		t.Fatalf("OnGet must call MoveToFront exactly once with the ref")
	}
	if h.pushFrontCnt != 0 || h.removeCnt != 0 {
		t.Fatalf("OnGet must not call PushFront/Remove")
	}
}

// OnUpdate should promote the entry (writes count as recent use).
func TestLRU_OnUpdate_MoveToFront(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	p.OnUpdate(4)

	if h.moveToFrontCnt != 1 || h.lastMove != 4 {
		t.Fatalf("OnUpdate must call MoveToFront exactly once with the ref")
	}
	if h.pushFrontCnt != 0 || h.removeCnt != 0 {
		t.Fatalf("OnUpdate must not call PushFront/Remove")
	}
}

// OnRemove is a no-op for pure LRU.
func TestLRU_OnRemove_NoOp(t *testing.T) {
	t.Parallel()

	h := &mockHooks{}
	p := New().New(h)

	p.OnRemove(5)

	if h.pushFrontCnt != 0 || h.moveToFrontCnt != 0 || h.removeCnt != 0 {
		t.Fatalf("OnRemove for LRU must be no-op (no hooks should be called)")
	}
}
