package card

import (
	"math/rand"
	"testing"
)

func TestNewDeckContainsAllCardsExactlyOnce(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	seen := make(map[Card]bool, 52)
	for _, c := range d.Cards() {
		if seen[c] {
			t.Fatalf("card %v dealt twice", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("expected 52 distinct cards, got %d", len(seen))
	}
}

func TestNewDeckFromCardsPreservesOrder(t *testing.T) {
	ordered := All52()
	d := NewDeckFromCards(ordered)
	for i, c := range d.Cards() {
		if c != ordered[i] {
			t.Fatalf("card %d: got %v, want %v", i, c, ordered[i])
		}
	}
}

func TestHoleCardsAreDisjointBetweenPlayers(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(2)))
	dealer := d.HoleCards(0)
	opponent := d.HoleCards(1)
	for _, dc := range dealer {
		for _, oc := range opponent {
			if dc == oc {
				t.Fatalf("dealer and opponent share card %v", dc)
			}
		}
	}
}

func TestHoleCardsPanicsOnInvalidPlayer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an invalid player id")
		}
	}()
	d := NewDeck(rand.New(rand.NewSource(3)))
	d.HoleCards(2)
}

func TestBoardCardsGrowsWithStreet(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(4)))
	if b := d.BoardCards(0); b != nil {
		t.Fatalf("preflop board should be empty, got %v", b)
	}
	if len(d.BoardCards(1)) != 3 {
		t.Fatalf("flop board should have 3 cards, got %d", len(d.BoardCards(1)))
	}
	if len(d.BoardCards(2)) != 4 {
		t.Fatalf("turn board should have 4 cards, got %d", len(d.BoardCards(2)))
	}
	if len(d.BoardCards(3)) != 5 {
		t.Fatalf("river board should have 5 cards, got %d", len(d.BoardCards(3)))
	}
}

func TestBoardCardsPanicsOnInvalidStreet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an invalid street")
		}
	}()
	d := NewDeck(rand.New(rand.NewSource(5)))
	d.BoardCards(4)
}

func TestShuffleIsDeterministicForASeed(t *testing.T) {
	a := NewDeck(rand.New(rand.NewSource(42)))
	b := NewDeck(rand.New(rand.NewSource(42)))
	if a.Cards()[0] != b.Cards()[0] || a.Cards()[51] != b.Cards()[51] {
		t.Fatal("same seed should produce the same shuffle")
	}
}
