package cfr

import "github.com/handsup/hunl-solver/action"

// InfoSetKey identifies a player's view of the game: the compressed action
// path taken to reach this decision (under the trainer's bet abstraction,
// one byte per action as an index into that node's NextActions) plus the
// card bucket. Two physical states with identical InfoSetKeys are treated
// as strategically identical, which is the entire point of the abstraction.
//
// Using the compressed path (rather than a hash of the full ActionHistory)
// doubles as the persisted compressed-blueprint key described in the
// persistence section: no extra encoding step is needed to go from
// in-memory key to on-disk key.
type InfoSetKey struct {
	Path       string
	CardBucket int32
}

// BuildInfoSetKey derives the info-set key for a decision at h, given the
// card bucket the hand abstraction assigned to the acting player's cards.
func BuildInfoSetKey(h *action.History, bets action.BetAbstraction, cardBucket int32) InfoSetKey {
	return InfoSetKey{
		Path:       string(h.Compress(bets)),
		CardBucket: cardBucket,
	}
}
