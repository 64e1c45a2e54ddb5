package cfr

import (
	"hash/fnv"
	"sync"

	"github.com/handsup/hunl-solver/action"
)

// shardCount mirrors the teacher's sharded regret table: a fixed power-of-two
// shard count keeps lock contention low without the complexity of a
// lock-free structure, which the spec calls out as a bonus, not a
// requirement.
const shardCount = 64
const shardMask = shardCount - 1

type shard struct {
	mu      sync.Mutex
	entries map[InfoSetKey]*Node
}

// NodeStore is a concurrent InfoSetKey -> *Node map. Ownership of a given
// node is exclusive to whichever traversal is currently updating it;
// concurrent readers (e.g. a snapshot for checkpointing) accept eventual
// consistency, matching the concurrency model in section 5.
type NodeStore struct {
	shards [shardCount]shard
}

// NewNodeStore returns an empty store ready for concurrent use.
func NewNodeStore() *NodeStore {
	s := &NodeStore{}
	for i := range s.shards {
		s.shards[i].entries = make(map[InfoSetKey]*Node)
	}
	return s
}

// GetOrInsert returns the node for key, creating it via newFn if absent.
func (s *NodeStore) GetOrInsert(key InfoSetKey, newFn func() *Node) *Node {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if n, ok := sh.entries[key]; ok {
		return n
	}
	n := newFn()
	sh.entries[key] = n
	return n
}

// Size returns the number of info sets tracked.
func (s *NodeStore) Size() int {
	total := 0
	for i := range s.shards {
		s.shards[i].mu.Lock()
		total += len(s.shards[i].entries)
		s.shards[i].mu.Unlock()
	}
	return total
}

// Snapshot copies out the full key/node set for checkpointing or blueprint
// extraction. The copy is taken shard by shard, so it is not an atomic
// point-in-time view of the whole store under concurrent writers, which is
// acceptable per the store's eventual-consistency contract.
func (s *NodeStore) Snapshot() map[InfoSetKey]*Node {
	out := make(map[InfoSetKey]*Node)
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for k, v := range sh.entries {
			out[k] = v
		}
		sh.mu.Unlock()
	}
	return out
}

func (s *NodeStore) shardFor(key InfoSetKey) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.Path))
	_, _ = h.Write([]byte{byte(key.CardBucket), byte(key.CardBucket >> 8), byte(key.CardBucket >> 16), byte(key.CardBucket >> 24)})
	return &s.shards[h.Sum32()&shardMask]
}

// newNodeForHistory is the Node constructor used by the trainer's
// get-or-insert call: it derives the node's legal actions directly from the
// history, per Node::new(infoset, bet_abstraction) in the reference design.
func newNodeForHistory(h *action.History, bets action.BetAbstraction) func() *Node {
	return func() *Node {
		return NewNode(h.NextActions(bets))
	}
}
