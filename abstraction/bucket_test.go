package abstraction

import (
	"testing"

	"github.com/handsup/hunl-solver/card"
)

func mustCards(t *testing.T, s string) []card.Card {
	t.Helper()
	cards, err := card.ParseCards(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return cards
}

func TestBinDispatchesByCardCount(t *testing.T) {
	m, err := NewBucketMapper(DefaultConfig())
	if err != nil {
		t.Fatalf("NewBucketMapper: %v", err)
	}

	preflop := m.Bin(mustCards(t, "As,Kd"))
	if preflop < 0 || preflop >= PreflopBuckets {
		t.Fatalf("preflop bucket out of range: %d", preflop)
	}

	flop := m.Bin(mustCards(t, "As,Kd,2c,7h,9s"))
	if flop < 0 || int(flop) >= m.config.FlopBuckets {
		t.Fatalf("flop bucket out of range: %d", flop)
	}

	turn := m.Bin(mustCards(t, "As,Kd,2c,7h,9s,Tc"))
	if turn < 0 || int(turn) >= m.config.TurnBuckets {
		t.Fatalf("turn bucket out of range: %d", turn)
	}

	river := m.Bin(mustCards(t, "As,Kd,2c,7h,9s,Tc,3d"))
	if river < 0 || int(river) >= m.config.RiverBuckets {
		t.Fatalf("river bucket out of range: %d", river)
	}
}

func TestBinPanicsOnBadCardCount(t *testing.T) {
	m, _ := NewBucketMapper(DefaultConfig())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on bad card count")
		}
	}()
	m.Bin(mustCards(t, "As,Kd,2c"))
}

func TestBinSuitIsomorphic(t *testing.T) {
	m, _ := NewBucketMapper(DefaultConfig())

	base := m.Bin(mustCards(t, "Ac,Kc,2d,7h,9s"))
	permuted := m.Bin(mustCards(t, "Ad,Kd,2c,7h,9s"))
	if base != permuted {
		t.Fatalf("bin must be suit-isomorphic: base=%d permuted=%d", base, permuted)
	}
}

func TestConfigValidate(t *testing.T) {
	bad := Config{FlopBuckets: 0, TurnBuckets: 1, RiverBuckets: 1}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected validation error for zero flop buckets")
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
