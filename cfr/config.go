// Package cfr implements external-sampling Discounted Counterfactual Regret
// Minimization (DCFR) over the abstracted heads-up no-limit hold'em game
// tree: a sharded node store, the per-iteration traversal, and checkpoint /
// blueprint persistence.
package cfr

import (
	"errors"
	"time"

	"github.com/handsup/hunl-solver/abstraction"
	"github.com/handsup/hunl-solver/action"
)

// Config is the static, process-wide configuration for one training run:
// chip parameters, the card and bet abstractions, DCFR exponents, and the
// training/checkpoint schedule. Values are immutable for the life of a
// process.
type Config struct {
	StackSize      int
	SmallBlind     int
	BigBlind       int
	BetAbstraction action.BetAbstraction
	Abstraction    abstraction.Config

	// DCFR exponents: positive regrets are discounted by t^Alpha/(t^Alpha+1),
	// negative regrets by t^Beta/(t^Beta+1). Gamma is accepted for
	// compatibility with the alternate strategy-sum weighting described in
	// section 9 of the spec but unused by this package's DCFR+ variant (see
	// Node.CurrentStrategy).
	Alpha float64
	Beta  float64
	Gamma float64

	TrainIters   int
	EvalEvery    int
	SubgameIters int
	WarmStart    bool

	NodeStorePath      string
	PreflopChartPath   string
	CheckpointEvery    time.Duration
	CheckpointPath     string
	ParallelIterations int
}

// Validate checks that the configuration is well-formed before training
// begins.
func (c Config) Validate() error {
	if c.StackSize <= 0 {
		return errors.New("cfr: stack size must be > 0")
	}
	if c.SmallBlind <= 0 || c.BigBlind <= c.SmallBlind {
		return errors.New("cfr: big blind must be > small blind > 0")
	}
	if len(c.BetAbstraction.Preflop) == 0 || len(c.BetAbstraction.Postflop) == 0 {
		return errors.New("cfr: bet abstraction must be non-empty for both streets")
	}
	if err := c.Abstraction.Validate(); err != nil {
		return err
	}
	if c.TrainIters <= 0 {
		return errors.New("cfr: train iters must be > 0")
	}
	if c.ParallelIterations < 0 {
		return errors.New("cfr: parallel iterations cannot be negative")
	}
	return nil
}

// DefaultConfig is a small configuration suitable for smoke-testing the
// trainer end to end.
func DefaultConfig() Config {
	return Config{
		StackSize:          20000,
		SmallBlind:         50,
		BigBlind:           100,
		BetAbstraction:     action.DefaultBetAbstraction(),
		Abstraction:        abstraction.DefaultConfig(),
		Alpha:              1.5,
		Beta:               0,
		Gamma:              2,
		TrainIters:         1000,
		EvalEvery:          100,
		SubgameIters:       1000,
		NodeStorePath:      "nodes.json",
		PreflopChartPath:   "preflop_chart.json",
		CheckpointEvery:    5 * time.Minute,
		ParallelIterations: 1,
	}
}
