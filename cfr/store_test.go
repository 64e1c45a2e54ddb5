package cfr

import (
	"sync"
	"testing"

	"github.com/handsup/hunl-solver/action"
)

func TestNodeStoreGetOrInsertReturnsSameNode(t *testing.T) {
	store := NewNodeStore()
	key := InfoSetKey{Path: "abc", CardBucket: 5}
	calls := 0
	newFn := func() *Node {
		calls++
		return NewNode([]action.Action{{Type: action.Fold}, {Type: action.Call}})
	}

	first := store.GetOrInsert(key, newFn)
	second := store.GetOrInsert(key, newFn)

	if first != second {
		t.Fatal("expected GetOrInsert to return the same node for the same key")
	}
	if calls != 1 {
		t.Fatalf("expected newFn called once, got %d", calls)
	}
	if store.Size() != 1 {
		t.Fatalf("expected store size 1, got %d", store.Size())
	}
}

func TestNodeStoreDistinctKeysDistinctNodes(t *testing.T) {
	store := NewNodeStore()
	newFn := func() *Node {
		return NewNode([]action.Action{{Type: action.Fold}})
	}
	a := store.GetOrInsert(InfoSetKey{Path: "a", CardBucket: 0}, newFn)
	b := store.GetOrInsert(InfoSetKey{Path: "b", CardBucket: 0}, newFn)
	if a == b {
		t.Fatal("expected distinct nodes for distinct keys")
	}
	if store.Size() != 2 {
		t.Fatalf("expected store size 2, got %d", store.Size())
	}
}

func TestNodeStoreConcurrentGetOrInsert(t *testing.T) {
	store := NewNodeStore()
	key := InfoSetKey{Path: "concurrent", CardBucket: 1}
	newFn := func() *Node {
		return NewNode([]action.Action{{Type: action.Fold}, {Type: action.Call}})
	}

	var wg sync.WaitGroup
	results := make([]*Node, 64)
	for i := 0; i < 64; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = store.GetOrInsert(key, newFn)
		}()
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("expected all concurrent GetOrInsert calls to converge on one node")
		}
	}
}

func TestNodeStoreSnapshotCopiesAllShards(t *testing.T) {
	store := NewNodeStore()
	newFn := func() *Node {
		return NewNode([]action.Action{{Type: action.Fold}})
	}
	want := map[InfoSetKey]bool{}
	for i := 0; i < 200; i++ {
		key := InfoSetKey{Path: string(rune('a' + i%26)), CardBucket: int32(i)}
		store.GetOrInsert(key, newFn)
		want[key] = true
	}

	snap := store.Snapshot()
	if len(snap) != len(want) {
		t.Fatalf("expected snapshot of %d entries, got %d", len(want), len(snap))
	}
	for key := range want {
		if _, ok := snap[key]; !ok {
			t.Fatalf("missing key %+v in snapshot", key)
		}
	}
}
