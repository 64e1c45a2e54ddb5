package abstraction

import "github.com/handsup/hunl-solver/card"

// PreflopBucket maps two hole cards onto one of the 169 canonical preflop
// classes (every distinct "XYo"/"XYs" starting hand). The mapping is
// suit-isomorphic (only suitedness matters, not which suit) and
// order-insensitive (AhKd and KdAh land in the same bucket).
//
// Buckets are laid out as a 13x13 grid indexed by rank (Two=0..Ace=12):
// pairs sit on the diagonal, suited combos in the row>col half, offsuit
// combos in the row<col half, so every cell of the grid is used exactly
// once and the three categories never collide.
func PreflopBucket(hole [2]card.Card) int {
	r0, r1 := int(hole[0].Rank-card.Two), int(hole[1].Rank-card.Two)
	hi, lo := r0, r1
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == lo {
		return hi*13 + hi
	}
	if hole[0].Suit == hole[1].Suit {
		return hi*13 + lo
	}
	return lo*13 + hi
}
