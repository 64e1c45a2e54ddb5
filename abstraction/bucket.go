package abstraction

import (
	"fmt"

	"github.com/handsup/hunl-solver/card"
	"github.com/handsup/hunl-solver/evaluator"
)

// BucketMapper converts hole/board cards into the integer card bucket CFR
// operates over. It is the sole place street-specific bucket counts are
// consulted, so the trainer and the bot always agree on bucket identity.
type BucketMapper struct {
	config Config
}

// NewBucketMapper validates cfg and returns a mapper backed by it.
func NewBucketMapper(cfg Config) (*BucketMapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BucketMapper{config: cfg}, nil
}

// Bin maps cards onto a bucket. len(cards) must be 2 (preflop), 5 (flop: 2
// hole + 3 board), 6 (turn), or 7 (river); any other count is a programmer
// error, per the hand_strength/bin contract.
func (m *BucketMapper) Bin(cards []card.Card) int32 {
	switch len(cards) {
	case 2:
		return int32(PreflopBucket([2]card.Card{cards[0], cards[1]}))
	case 5:
		return int32(m.postflop(cards, m.config.FlopBuckets))
	case 6:
		return int32(m.postflop(cards, m.config.TurnBuckets))
	case 7:
		return int32(m.postflop(cards, m.config.RiverBuckets))
	default:
		panic(fmt.Sprintf("abstraction: bin requires 2, 5, 6, or 7 cards, got %d", len(cards)))
	}
}

func (m *BucketMapper) postflop(cards []card.Card, bucketCount int) int {
	board := evaluator.FromCards(cards[2:])
	return postflopBucket(cards, board, bucketCount)
}
