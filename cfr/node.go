package cfr

import (
	"math"
	"sync"

	"github.com/handsup/hunl-solver/action"
)

// MaxActions is the upper bound on the branching factor of the abstracted
// game tree (the configured bet abstraction plus Call and Fold, in
// practice). Node carries fixed-size [MaxActions]float64 arrays rather than
// a growable slice: allocating per-node arrays of variable size would
// defeat the node store's per-entry memory budget at the >=10^8 info-set
// scale the trainer must support.
const MaxActions = 5

// Node holds per-action regrets and cumulative strategy sums for one
// information set. Only positions [0, NumActions) are meaningful; positions
// >= NumActions remain zero for the life of the node.
//
// NodeStore.GetOrInsert releases its shard lock before returning the
// *Node, so a node's own mu is what makes ownership of an individual node
// exclusive: Trainer.Run spawns ParallelIterations traversals concurrently
// via errgroup, and distinct goroutines can legitimately land on the same
// node (there are only 169 preflop buckets near the root). CurrentStrategy
// and AddRegret both read-modify-write regrets/strategySum/t and must hold
// mu for their entire body, not just around individual field accesses.
type Node struct {
	mu          sync.Mutex
	regrets     [MaxActions]float64
	strategySum [MaxActions]float64
	actions     [MaxActions]action.Action
	numActions  int
	t           float64
}

// NewNode constructs a node for the given legal actions (as returned by
// ActionHistory.NextActions). Panics if there are more legal actions than
// MaxActions, since that would silently truncate the action space.
func NewNode(actions []action.Action) *Node {
	if len(actions) > MaxActions {
		panic("cfr: node has more legal actions than MaxActions")
	}
	n := &Node{numActions: len(actions)}
	copy(n.actions[:], actions)
	return n
}

// NumActions returns the node's true branching factor.
func (n *Node) NumActions() int { return n.numActions }

// Actions returns the node's legal actions, in fixed emission order.
func (n *Node) Actions() []action.Action { return n.actions[:n.numActions] }

// CurrentStrategy computes this iteration's regret-matching strategy
// (positive regrets normalized to sum to 1, uniform if all regrets are
// non-positive), accumulates it into strategy_sum under the DCFR+
// weighting max(0, t-100) (so visits made while t <= 100, i.e. the first
// 101, contribute nothing, discarding the high-variance early strategy),
// and advances the visit counter t when
// reachProb > 0. The returned strategy is what the caller samples or mixes
// children by for this traversal.
func (n *Node) CurrentStrategy(reachProb float64) [MaxActions]float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	var strat [MaxActions]float64
	total := 0.0
	for i := 0; i < n.numActions; i++ {
		if n.regrets[i] > 0 {
			strat[i] = n.regrets[i]
			total += strat[i]
		}
	}
	if total > 0 {
		for i := 0; i < n.numActions; i++ {
			strat[i] /= total
		}
	} else {
		uniform := 1.0 / float64(n.numActions)
		for i := 0; i < n.numActions; i++ {
			strat[i] = uniform
		}
	}

	weight := 0.0
	if n.t >= 100 {
		weight = n.t - 100
	}
	for i := 0; i < n.numActions; i++ {
		n.strategySum[i] += weight * strat[i] * reachProb
	}
	if reachProb > 0 {
		n.t++
	}
	return strat
}

// AddRegret accumulates regret for action i and applies the DCFR discount:
// the running sum is scaled by t^alpha/(t^alpha+1) when non-negative, or
// t^beta/(t^beta+1) when negative.
func (n *Node) AddRegret(i int, regret, alpha, beta float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	acc := n.regrets[i] + regret
	if acc >= 0 {
		acc *= math.Pow(n.t, alpha) / (math.Pow(n.t, alpha) + 1)
	} else {
		acc *= math.Pow(n.t, beta) / (math.Pow(n.t, beta) + 1)
	}
	n.regrets[i] = acc
}

// CumulativeStrategy returns the normalized strategy_sum: the blueprint
// strategy for this info set. Uniform if the sum is zero (never visited
// with positive reach, or all mass landed on negative-regret actions).
func (n *Node) CumulativeStrategy() [MaxActions]float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	var strat [MaxActions]float64
	total := 0.0
	for i := 0; i < n.numActions; i++ {
		total += n.strategySum[i]
	}
	if total <= 0 {
		uniform := 1.0 / float64(n.numActions)
		for i := 0; i < n.numActions; i++ {
			strat[i] = uniform
		}
		return strat
	}
	for i := 0; i < n.numActions; i++ {
		strat[i] = n.strategySum[i] / total
	}
	return strat
}
