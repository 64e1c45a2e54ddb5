package cfr

import (
	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/card"
	"github.com/handsup/hunl-solver/evaluator"
)

// TerminalUtility computes history's chip utility for player p, from p's
// point of view (positive = won). h must satisfy h.HandOver().
//
// On a fold, the non-folder wins chips equal to the folder's contribution
// (stack_size - stacks[folder]); if that is zero (an open fold, before the
// folder has put in any chips beyond their blind), the folder forfeits
// their posted blind instead (small blind for the dealer, big blind for the
// opponent).
//
// Otherwise (showdown), both players' best 7-card hands are compared; the
// winner gets +pot/2, the loser -pot/2, a tie splits the pot (utility 0).
func TerminalUtility(cfg Config, deck card.Deck, h *action.History, p int) float64 {
	last := h.LastAction()
	if last != nil && last.Type == action.Fold {
		folder := 1 - h.Player()
		stacks := h.Stacks()
		contribution := cfg.StackSize - stacks[folder]
		if contribution == 0 {
			if folder == action.DealerSeat {
				contribution = cfg.SmallBlind
			} else {
				contribution = cfg.BigBlind
			}
		}
		if p == folder {
			return -float64(contribution)
		}
		return float64(contribution)
	}

	board := deck.BoardCards(3)
	holeP := deck.HoleCards(p)
	holeOther := deck.HoleCards(1 - p)

	handP := append(append([]card.Card(nil), holeP[:]...), board...)
	handOther := append(append([]card.Card(nil), holeOther[:]...), board...)

	rankP := evaluator.Evaluate(handP)
	rankOther := evaluator.Evaluate(handOther)

	half := float64(h.Pot()) / 2
	switch evaluator.Compare(rankP, rankOther) {
	case 1:
		return half
	case -1:
		return -half
	default:
		return 0
	}
}
