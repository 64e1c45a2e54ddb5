package ranges

import (
	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/card"
)

// RangeStrategyFn reports the probability distribution over hole's legal
// actions at the decision point represented by h, the replayed prefix of a
// translated history up to and including this turn, as the bot's
// blueprint (or a resolved subgame) would report it for a player holding
// hole at that exact point. Callers typically close over a *cfr.Blueprint
// and an hand-abstraction bucket mapper to build one of these.
type RangeStrategyFn func(h *action.History, hole [2]card.Card) map[action.Action]float64

// boardCardsAtStreet returns how many board cards are visible once a hand
// reaches street: none preflop, three from the flop on, four from the turn
// on, five from the river on.
func boardCardsAtStreet(street action.Street) int {
	switch street {
	case action.Preflop:
		return 0
	case action.Flop:
		return 3
	case action.Turn:
		return 4
	default:
		return 5
	}
}

// GetOpponentRange implements section 4.6's history-replay range
// derivation. It starts from a uniform prior over every hand that does not
// block ourHole, then replays translated street by street: board cards are
// removed as blockers the moment they become visible, and every action the
// opponent took is folded in as a Bayesian Update via strategyFn, which is
// asked what an opponent holding each candidate hole pair would have done
// at that exact decision point. translated is assumed to already be our
// own turn to act (the seat to act when this is called is ours), so the
// opponent is whichever seat is not translated.Player().
//
// board holds every board card visible at the point this is called (0, 3,
// 4, or 5 cards); fewer cards than the street calls for are simply not
// revealed yet (e.g. called mid-flop before the turn is dealt).
func GetOpponentRange(ourHole [2]card.Card, board []card.Card, translated *action.History, strategyFn RangeStrategyFn) *Range {
	r := NewOpponentRange(ourHole)
	opponentSeat := 1 - translated.Player()

	replay := action.New(translated.StackSize(), translated.BigBlind())
	revealed := 0
	revealFor := func(street action.Street) {
		if want := boardCardsAtStreet(street); want > revealed && want <= len(board) {
			r.RemoveBlockers(board[revealed:want])
			revealed = want
		}
	}

	for _, street := range translated.ByStreet() {
		revealFor(replay.Street())
		for _, a := range street {
			if replay.Player() == opponentSeat {
				lookup := func(hole [2]card.Card) map[action.Action]float64 {
					return strategyFn(replay, hole)
				}
				r.Update(lookup, a)
			}
			replay.Add(a)
		}
	}
	revealFor(replay.Street())

	return r
}
