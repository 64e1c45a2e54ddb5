// Package bot is the play-time front end: given the real action history for
// a hand, it translates the observed bet sizes onto the trained bet
// abstraction, looks up (or resolves) a strategy for the resulting info
// set, and samples a concrete action back out, following the same
// translate/compress round trip the trainer used to build the blueprint.
package bot

import (
	"errors"
	"math/rand"

	lru "github.com/opencoff/golang-lru"

	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/card"
	"github.com/handsup/hunl-solver/cfr"
	"github.com/handsup/hunl-solver/ranges"
)

// defaultSubgameCacheSize bounds the number of resolved subgame strategies
// kept in memory, per the expanded spec's default.
const defaultSubgameCacheSize = 4096

// Bot is the library entry point an HTTP or CLI handler calls to get a
// concrete action for the current state of a hand. It is itself the
// out-of-scope HTTP surface's only real dependency; no server lives in
// this package.
type Bot struct {
	blueprint *cfr.Blueprint
	cfg       cfr.Config
	bucket    bucketMapper
	subgame   *lru.Cache

	// Resolve runs real-time subgame solving for an info set the blueprint
	// never visited during training; it is not called when the blueprint has
	// the info set. Nil disables subgame solving, falling back to a uniform
	// strategy over the legal actions.
	Resolve SubgameSolver
}

// bucketMapper is the subset of *abstraction.BucketMapper the bot depends
// on, kept as an interface so tests can stub it without a full abstraction
// config.
type bucketMapper interface {
	Bin(cards []card.Card) int32
}

// SubgameSolver resolves a fresh strategy for an info set not covered (or
// not trusted) by the blueprint, returning per-action probabilities over
// the same legal-action order NextActions would produce. opponentRange is
// the belief over the opponent's hole cards derived by GetOpponentRange,
// the real-time subgame solving input required by section 4.7.x.
type SubgameSolver func(h *action.History, board []card.Card, opponentRange *ranges.Range) ([]float64, error)

// New constructs a bot from a trained blueprint and the config it was
// trained under (the config supplies the bet abstraction and bucket
// mapper needed to replay real histories against the blueprint's keys).
func New(bp *cfr.Blueprint, cfg cfr.Config, bucket bucketMapper) (*Bot, error) {
	if bp == nil {
		return nil, errors.New("bot: nil blueprint")
	}
	cache, err := lru.New(defaultSubgameCacheSize)
	if err != nil {
		return nil, err
	}
	return &Bot{blueprint: bp, cfg: cfg, bucket: bucket, subgame: cache}, nil
}

// GetAction returns the concrete action the bot takes given the real
// history h (in real bet sizes) and the board cards visible at h's current
// street. hole is the bot's own two hole cards.
//
// The flow is: translate h onto the trained bet abstraction, compress it
// into an info-set key alongside the hand-abstraction bucket for hole+
// board, look up a strategy (blueprint, falling back to a resolved
// subgame, falling back to uniform), sample an action from it in the
// abstraction's terms, then map that sampled action back onto a real legal
// bet size in h via AdjustAction.
func (b *Bot) GetAction(h *action.History, hole [2]card.Card, board []card.Card, rng *rand.Rand) (action.Action, error) {
	if b == nil || b.blueprint == nil {
		return action.Action{}, errors.New("bot: bot not initialized")
	}

	translated := h.Translate(b.cfg.BetAbstraction)
	cards := append(append([]card.Card(nil), hole[0], hole[1]), board...)
	cardBucket := b.bucket.Bin(cards)
	key := cfr.BuildInfoSetKey(translated, b.cfg.BetAbstraction, cardBucket)

	candidates := translated.NextActions(b.cfg.BetAbstraction)
	if len(candidates) == 0 {
		return action.Action{}, errors.New("bot: no legal actions at a non-terminal history")
	}

	weights, err := b.strategyFor(key, translated, hole, board, len(candidates))
	if err != nil {
		return action.Action{}, err
	}

	idx := sampleIndex(weights, rng)
	return h.AdjustAction(b.cfg.BetAbstraction, candidates[idx]), nil
}

// strategyFor returns a probability distribution over candidates' legal
// actions (in the same order NextActions emits), preferring the trained
// blueprint, falling back to a resolved subgame (cached by key) when the
// blueprint never visited this info set and a solver is configured, and
// finally a uniform distribution. hole is only needed to derive the
// opponent's belief range when a subgame must actually be resolved; the
// blueprint and cache paths never touch it.
func (b *Bot) strategyFor(key cfr.InfoSetKey, translated *action.History, hole [2]card.Card, board []card.Card, numActions int) ([]float64, error) {
	if strat, ok := b.blueprint.Strategy(key); ok {
		return strat[:numActions], nil
	}

	if b.Resolve != nil {
		if cached, ok := b.subgame.Get(key); ok {
			return cached.([]float64), nil
		}
		opponentRange := ranges.GetOpponentRange(hole, board, translated, b.rangeStrategy(board))
		weights, err := b.Resolve(translated, board, opponentRange)
		if err != nil {
			return nil, err
		}
		b.subgame.Add(key, weights)
		return weights, nil
	}

	weights := make([]float64, numActions)
	uniform := 1.0 / float64(numActions)
	for i := range weights {
		weights[i] = uniform
	}
	return weights, nil
}

// rangeStrategy returns a ranges.RangeStrategyFn that answers "what would a
// player holding candidateHole have done at replay point h" purely from the
// trained blueprint (falling back to uniform for info sets it never
// visited), never recursing into subgame solving itself: deriving the
// opponent's range is an input to resolving a subgame, not something that
// should trigger another one.
func (b *Bot) rangeStrategy(board []card.Card) ranges.RangeStrategyFn {
	return func(h *action.History, candidateHole [2]card.Card) map[action.Action]float64 {
		cards := append(append([]card.Card(nil), candidateHole[0], candidateHole[1]), board...)
		cardBucket := b.bucket.Bin(cards)
		key := cfr.BuildInfoSetKey(h, b.cfg.BetAbstraction, cardBucket)
		candidates := h.NextActions(b.cfg.BetAbstraction)

		probs := make(map[action.Action]float64, len(candidates))
		if strat, ok := b.blueprint.Strategy(key); ok {
			for i, c := range candidates {
				probs[c] = strat[i]
			}
			return probs
		}

		uniform := 1.0 / float64(len(candidates))
		for _, c := range candidates {
			probs[c] = uniform
		}
		return probs
	}
}

func sampleIndex(weights []float64, rng *rand.Rand) int {
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
