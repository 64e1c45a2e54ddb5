// Package ranges tracks a Bayesian belief over an opponent's two hole
// cards: a probability distribution over the 1326 unordered hole-card
// pairs, updated as observed actions narrow down which hands are
// consistent with the opponent's strategy, and blockers are removed as
// board cards are revealed.
package ranges

import (
	"errors"
	"math/rand"

	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/card"
)

// NumHolePairs is the number of distinct unordered two-card hole
// combinations from a 52-card deck: C(52,2) = 1326.
const NumHolePairs = 1326

// Range is a probability distribution over the 1326 hole-card pairs,
// backed by a fixed array rather than a map: the domain is small, fixed,
// and fully enumerable up front, so a flat array keeps RemoveBlockers and
// SampleHand allocation-free on the hot path, the same tradeoff the node
// store makes for Node.regrets.
type Range struct {
	weights [NumHolePairs]float64
}

// holePairIndex returns the canonical index of the unordered pair {a, b}
// in [0, NumHolePairs), via the standard combinatorial-number-system
// ranking over 52-choose-2. Order of a, b does not matter.
func holePairIndex(a, b card.Card) int {
	hi, lo := a.Index(), b.Index()
	if lo > hi {
		hi, lo = lo, hi
	}
	// Number of pairs with first element < hi, plus the offset of lo
	// within pairs whose first element is hi.
	return hi*(hi-1)/2 + lo
}

// hasBlocker reports whether the card at deck index idx appears among
// blockers.
func hasBlocker(idx int, blockers []card.Card) bool {
	for _, b := range blockers {
		if b.Index() == idx {
			return true
		}
	}
	return false
}

// pairFromIndex returns the two deck indices making up the pair at i, the
// inverse of holePairIndex.
func pairFromIndex(i int) (int, int) {
	hi := 1
	for hi*(hi-1)/2 <= i {
		hi++
	}
	hi--
	lo := i - hi*(hi-1)/2
	return hi, lo
}

// New returns a range uniform over every hole-card pair.
func New() *Range {
	r := &Range{}
	uniform := 1.0 / float64(NumHolePairs)
	for i := range r.weights {
		r.weights[i] = uniform
	}
	return r
}

// NewOpponentRange returns a range uniform over every hole-card pair that
// does not share a card with exploiterHole, the starting belief before any
// actions or board cards are observed.
func NewOpponentRange(exploiterHole [2]card.Card) *Range {
	r := &Range{}
	for i := range r.weights {
		hi, lo := pairFromIndex(i)
		if hi == exploiterHole[0].Index() || hi == exploiterHole[1].Index() ||
			lo == exploiterHole[0].Index() || lo == exploiterHole[1].Index() {
			r.weights[i] = 0
			continue
		}
		r.weights[i] = 1
	}
	r.normalize(nil)
	return r
}

// Prob returns the current probability mass on hole.
func (r *Range) Prob(hole [2]card.Card) float64 {
	return r.weights[holePairIndex(hole[0], hole[1])]
}

// RemoveBlockers zeroes out every hole pair that shares a card with
// blockers (newly revealed board cards, or a known hand), then
// renormalizes. A range can never include a hand holding a card that is
// visible elsewhere. If every remaining hand is blocked, the range falls
// back to uniform over the hands that were still live before this call
// (rather than collapsing to all zero), matching Update's fallback.
func (r *Range) RemoveBlockers(blockers []card.Card) {
	priorSupport := r.nonZeroSupport()
	for i := range r.weights {
		if r.weights[i] == 0 {
			continue
		}
		hi, lo := pairFromIndex(i)
		if hasBlocker(hi, blockers) || hasBlocker(lo, blockers) {
			r.weights[i] = 0
		}
	}
	r.normalize(priorSupport)
}

// StrategyLookup reports the probability an opponent holding hole assigns
// to each legal action at the current decision, as the bot's blueprint (or
// a resolved subgame strategy) would report it. Actions absent from the
// returned map are treated as impossible under that hand.
type StrategyLookup func(hole [2]card.Card) map[action.Action]float64

// Update performs a Bayesian update of the range given that the opponent
// took took (not yet applied to the underlying history): each hand's prior
// weight is scaled by the probability that hand's strategy assigns to
// took, and the result is renormalized. A hand whose strategy never
// mentions took is eliminated outright, since it is inconsistent with the
// observed action. If took is off-policy for every hand still in the range
// (the post-multiply sum is zero), the range falls back to uniform over
// whichever hands were live immediately before this update, rather than
// collapsing to all zero.
func (r *Range) Update(strategy StrategyLookup, took action.Action) {
	priorSupport := r.nonZeroSupport()
	for i := range r.weights {
		if r.weights[i] == 0 {
			continue
		}
		hi, lo := pairFromIndex(i)
		hole := [2]card.Card{card.FromIndex(hi), card.FromIndex(lo)}
		probs := strategy(hole)
		p, ok := probs[took]
		if !ok {
			p = 0
		}
		r.weights[i] *= p
	}
	r.normalize(priorSupport)
}

// SampleHand draws a hole-card pair weighted by the range's current
// distribution. Returns false if every hand has been eliminated (a range
// collapsed to impossible by blocker removal or an inconsistent update).
func (r *Range) SampleHand(rng *rand.Rand) ([2]card.Card, bool) {
	total := 0.0
	for _, w := range r.weights {
		total += w
	}
	if total <= 0 {
		return [2]card.Card{}, false
	}
	target := rng.Float64() * total
	acc := 0.0
	for i, w := range r.weights {
		acc += w
		if target <= acc {
			hi, lo := pairFromIndex(i)
			return [2]card.Card{card.FromIndex(hi), card.FromIndex(lo)}, true
		}
	}
	hi, lo := pairFromIndex(NumHolePairs - 1)
	return [2]card.Card{card.FromIndex(hi), card.FromIndex(lo)}, true
}

// nonZeroSupport snapshots which hands currently carry positive weight, for
// use as a fallback support set if a subsequent mutation zeroes everything.
func (r *Range) nonZeroSupport() []bool {
	support := make([]bool, NumHolePairs)
	for i, w := range r.weights {
		support[i] = w > 0
	}
	return support
}

// normalize rescales r.weights to sum to 1. If every weight is zero or
// negative, it instead resets to uniform over fallbackSupport (the hands
// that were live before whatever mutation emptied the range); a nil or
// all-false fallbackSupport leaves the range collapsed, since there is
// nothing left to fall back to.
func (r *Range) normalize(fallbackSupport []bool) {
	total := 0.0
	for _, w := range r.weights {
		total += w
	}
	if total <= 0 {
		r.resetUniform(fallbackSupport)
		return
	}
	for i := range r.weights {
		r.weights[i] /= total
	}
}

func (r *Range) resetUniform(support []bool) {
	count := 0
	for _, live := range support {
		if live {
			count++
		}
	}
	if count == 0 {
		for i := range r.weights {
			r.weights[i] = 0
		}
		return
	}
	uniform := 1.0 / float64(count)
	for i := range r.weights {
		if support[i] {
			r.weights[i] = uniform
		} else {
			r.weights[i] = 0
		}
	}
}

// ErrRangeCollapsed indicates every hand in a range has been eliminated,
// surfaced by callers that need a hard failure rather than SampleHand's
// boolean.
var ErrRangeCollapsed = errors.New("ranges: range has no remaining hands")
