package abstraction

import (
	"math/bits"

	"github.com/handsup/hunl-solver/card"
	"github.com/handsup/hunl-solver/evaluator"
)

// texture is how coordinated ("wet") a board is: wet boards make more hands
// plausible, so they compress the real strength gap between buckets.
type texture int

const (
	dry texture = iota
	semiWet
	wet
	veryWet
)

// analyzeTexture scores board wetness from flush and straight potential plus
// pairing, mirroring the board-texture heuristic used to size postflop
// buckets: a single wetness score blending suit concentration, rank
// connectivity, and pairing.
func analyzeTexture(board evaluator.Hand) texture {
	if board.CountCards() < 3 {
		return dry
	}

	wetness := 0

	maxSuit := 0
	for s := card.Clubs; s <= card.Spades; s++ {
		if c := bits.OnesCount16(board.SuitMask(s)); c > maxSuit {
			maxSuit = c
		}
	}
	switch {
	case maxSuit >= 4:
		wetness += 4
	case maxSuit == 3:
		wetness += 3
	case maxSuit == 2:
		wetness += 1
	}

	if connected := longestRun(board.RankMask()); connected >= 4 {
		wetness += 4
	} else if connected == 3 {
		wetness += 3
	} else if connected == 2 {
		wetness += 1
	}

	if countPairs(board) >= 1 {
		wetness++
	}
	if countHighCards(board.RankMask()) >= 3 {
		wetness++
	}

	switch {
	case wetness <= 0:
		return dry
	case wetness <= 3:
		return semiWet
	case wetness <= 5:
		return wet
	default:
		return veryWet
	}
}

// longestRun returns the longest run of consecutive set ranks in mask,
// treating the ace (bit 12) as also usable low (wheel connectivity).
func longestRun(mask uint16) int {
	best, cur := 0, 0
	for r := 0; r < 13; r++ {
		if mask&(1<<uint(r)) != 0 {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	// Ace-low: treat bit 12 (ace) as preceding bit 0 (two) for wheel draws.
	if mask&(1<<12) != 0 {
		cur = 1
		for r := 0; r < 4; r++ {
			if mask&(1<<uint(r)) != 0 {
				cur++
				if cur > best {
					best = cur
				}
			} else {
				break
			}
		}
	}
	return best
}

func countPairs(h evaluator.Hand) int {
	var counts [13]uint8
	for s := card.Clubs; s <= card.Spades; s++ {
		m := h.SuitMask(s)
		for r := 0; r < 13; r++ {
			if m&(1<<uint(r)) != 0 {
				counts[r]++
			}
		}
	}
	pairs := 0
	for _, c := range counts {
		if c >= 2 {
			pairs++
		}
	}
	return pairs
}

// countHighCards counts ten-through-ace ranks present in mask.
func countHighCards(mask uint16) int {
	return bits.OnesCount16(mask & 0x1F00) // bits 8..12 = T,J,Q,K,A
}

// postflopBucket scores the combined hole+board cards by made-hand category
// (from the evaluator) discounted by board wetness, then quantizes into
// bucketCount bins. A made hand on a dry board is a stronger, more stable
// signal than the same category on a wet board, so wetness compresses the
// score before quantization.
func postflopBucket(cards []card.Card, board evaluator.Hand, bucketCount int) int {
	rank := evaluator.Evaluate(cards)
	category := float64(rank.Category() >> 28) // 0..8

	score := category * 10
	switch analyzeTexture(board) {
	case semiWet:
		score -= 1
	case wet:
		score -= 2
	case veryWet:
		score -= 3
	}
	if score < 0 {
		score = 0
	}

	const maxScore = 8*10 + 1 // headroom above the top category score
	bucket := int(score / (float64(maxScore) / float64(bucketCount)))
	if bucket >= bucketCount {
		bucket = bucketCount - 1
	}
	if bucket < 0 {
		bucket = 0
	}
	return bucket
}
