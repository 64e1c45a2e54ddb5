package cfr

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig should validate cleanly: %v", err)
	}
}

func TestValidateRejectsNonPositiveStack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StackSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a zero stack size")
	}
}

func TestValidateRejectsBigBlindNotGreaterThanSmall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BigBlind = cfg.SmallBlind
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when big blind does not exceed small blind")
	}
}

func TestValidateRejectsEmptyBetAbstraction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BetAbstraction.Preflop = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an empty preflop bet abstraction")
	}
}

func TestValidateRejectsNonPositiveTrainIters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrainIters = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for zero train iterations")
	}
}

func TestValidateRejectsNegativeParallelIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParallelIterations = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for negative parallel iterations")
	}
}
