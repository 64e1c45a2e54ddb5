// Package abstraction maps raw hole/board cards onto small integer buckets
// so the CFR trainer can operate over a tractable information-set space
// instead of the full card space. Preflop uses an exact 169-class canonical
// mapping; flop/turn/river use a configurable bucket count driven by a
// deterministic texture-and-strength score, standing in for the offline
// equity-clustering pipeline that would normally produce these bins.
package abstraction

import "errors"

// Config holds the bucket counts for each post-flop street. Preflop bucketing
// is always exactly 169 classes and is not configurable.
type Config struct {
	FlopBuckets  int
	TurnBuckets  int
	RiverBuckets int
}

// Validate checks that every configured bucket count is usable.
func (c Config) Validate() error {
	if c.FlopBuckets <= 0 {
		return errors.New("abstraction: flop bucket count must be > 0")
	}
	if c.TurnBuckets <= 0 {
		return errors.New("abstraction: turn bucket count must be > 0")
	}
	if c.RiverBuckets <= 0 {
		return errors.New("abstraction: river bucket count must be > 0")
	}
	return nil
}

// DefaultConfig is a small abstraction suitable for smoke-testing the
// trainer end to end; a production blueprint would use a much larger,
// offline-clustered bucket count per street.
func DefaultConfig() Config {
	return Config{
		FlopBuckets:  50,
		TurnBuckets:  50,
		RiverBuckets: 50,
	}
}

// PreflopBuckets is the fixed number of canonical preflop hand classes:
// 13 pairs + 78 suited combos + 78 offsuit combos.
const PreflopBuckets = 169
