package main

import (
	"context"
	"math/rand"

	"github.com/handsup/hunl-solver/abstraction"
	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/card"
	"github.com/handsup/hunl-solver/cfr"
)

// selfPlayResult summarizes a blueprint's average win rate against itself,
// expressed in big blinds per 100 hands from the dealer's perspective (by
// symmetry this is also the expected rate an equally-skilled opponent would
// see from the other seat, negated).
type selfPlayResult struct {
	hands          int
	dealerBBPer100 float64
}

// runSelfPlay deals the given number of hands, sampling both seats'
// actions from bp's cumulative strategy (falling back to uniform wherever
// the blueprint never visited an info set), and reports the dealer's
// average chip result. It is a library-level stand-in for the HTTP
// evaluation harness, which is out of scope per section 1.
func runSelfPlay(ctx context.Context, cfg cfr.Config, bp *cfr.Blueprint, hands int, seed int64) (*selfPlayResult, error) {
	bucket, err := abstraction.NewBucketMapper(cfg.Abstraction)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))

	totalDealerChips := 0.0
	played := 0
	for i := 0; i < hands; i++ {
		select {
		case <-ctx.Done():
			return &selfPlayResult{hands: played, dealerBBPer100: bbPer100(totalDealerChips, played, cfg.BigBlind)}, ctx.Err()
		default:
		}

		deck := card.NewDeck(rng)
		h := action.New(cfg.StackSize, cfg.BigBlind)
		for !h.HandOver() {
			hole := deck.HoleCards(h.Player())
			board := deck.BoardCards(int(h.Street()))
			cards := append(append([]card.Card(nil), hole[0], hole[1]), board...)
			cardBucket := bucket.Bin(cards)
			key := cfr.BuildInfoSetKey(h, cfg.BetAbstraction, cardBucket)

			candidates := h.NextActions(cfg.BetAbstraction)
			weights := strategyWeights(bp, key, len(candidates))
			idx := sampleWeighted(weights, rng)
			h.Add(candidates[idx])
		}

		totalDealerChips += cfr.TerminalUtility(cfg, deck, h, action.DealerSeat)
		played++
	}

	return &selfPlayResult{hands: played, dealerBBPer100: bbPer100(totalDealerChips, played, cfg.BigBlind)}, nil
}

func strategyWeights(bp *cfr.Blueprint, key cfr.InfoSetKey, numActions int) []float64 {
	if strat, ok := bp.Strategy(key); ok {
		return strat[:numActions]
	}
	weights := make([]float64, numActions)
	uniform := 1.0 / float64(numActions)
	for i := range weights {
		weights[i] = uniform
	}
	return weights
}

func sampleWeighted(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target <= acc {
			return i
		}
	}
	return len(weights) - 1
}

func bbPer100(totalChips float64, hands int, bigBlind int) float64 {
	if hands == 0 || bigBlind == 0 {
		return 0
	}
	bb := totalChips / float64(bigBlind)
	return bb / float64(hands) * 100
}
