package card

import "math/rand"

// Deck is the 52-card sequence used to deal a training hand. Training lays
// a shuffled deck out as dealer[0..2], opponent[2..4], flop[4..7], turn[7],
// river[8]; this layout is the sole source of truth for who holds what and
// what is on the board at each street.
type Deck struct {
	cards [52]Card
}

// NewDeck returns a freshly shuffled deck using rng. rng must not be nil;
// callers own the RNG so that shuffles are reproducible per-goroutine.
func NewDeck(rng *rand.Rand) Deck {
	d := Deck{cards: All52()}
	d.Shuffle(rng)
	return d
}

// NewDeckFromCards builds a deck with an explicit, fixed card order, for
// tests that need reproducible hole/board cards rather than a shuffle.
func NewDeckFromCards(cards [52]Card) Deck {
	return Deck{cards: cards}
}

// Shuffle re-shuffles the deck in place using Fisher-Yates.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// HoleCards returns the two hole cards for player 0 (dealer) or 1 (opponent).
func (d *Deck) HoleCards(player int) [2]Card {
	switch player {
	case 0:
		return [2]Card{d.cards[0], d.cards[1]}
	case 1:
		return [2]Card{d.cards[2], d.cards[3]}
	default:
		panic("card: invalid player id")
	}
}

// BoardCards returns the board cards visible on the given street (0=preflop,
// 1=flop, 2=turn, 3=river).
func (d *Deck) BoardCards(street int) []Card {
	switch street {
	case 0:
		return nil
	case 1:
		return d.cards[4:7]
	case 2:
		return d.cards[4:8]
	case 3:
		return d.cards[4:9]
	default:
		panic("card: invalid street")
	}
}

// Cards returns the full 52-card slice in current order (dealt order first).
func (d *Deck) Cards() []Card {
	return d.cards[:]
}
