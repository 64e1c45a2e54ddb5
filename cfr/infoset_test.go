package cfr

import (
	"testing"

	"github.com/handsup/hunl-solver/action"
)

func TestBuildInfoSetKeyDiffersByCardBucket(t *testing.T) {
	cfg := smokeConfig()
	h := action.New(cfg.StackSize, cfg.BigBlind)

	a := BuildInfoSetKey(h, cfg.BetAbstraction, 0)
	b := BuildInfoSetKey(h, cfg.BetAbstraction, 1)
	if a == b {
		t.Fatal("different card buckets should produce different keys at the same history")
	}
	if a.Path != b.Path {
		t.Fatal("the compressed path should be identical for the same history")
	}
}

func TestBuildInfoSetKeyDiffersByPath(t *testing.T) {
	cfg := smokeConfig()
	h := action.New(cfg.StackSize, cfg.BigBlind)
	before := BuildInfoSetKey(h, cfg.BetAbstraction, 0)

	candidates := h.NextActions(cfg.BetAbstraction)
	h.Add(candidates[0])
	after := BuildInfoSetKey(h, cfg.BetAbstraction, 0)

	if before.Path == after.Path {
		t.Fatal("taking an action should change the compressed path")
	}
}
