package cfr

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/opencoff/go-chd"

	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/fileutil"
)

const compactBlueprintFileVersion = 1

// CompactBlueprint is the play-time form of a trained blueprint: one
// sampled action per info set (rather than the full averaged strategy),
// keyed by the same (compressed history path, card bucket) pair as
// Blueprint, but indexed with a minimal perfect hash for O(1) lookup
// against a flat action array instead of a Go map.
type CompactBlueprint struct {
	keys    [][]byte
	actions []action.Action
	index   *chd.CHD
}

// BuildCompactBlueprint samples one action per info set from bp's
// cumulative strategy (weighted by the strategy's probabilities, via rng),
// then builds a minimal perfect hash over the resulting key set. cfg
// supplies the stack size, blinds, and bet abstraction needed to replay
// each info set's compressed path back into a concrete legal-action list,
// since Blueprint itself only stores probabilities, not the actions they
// refer to.
func BuildCompactBlueprint(bp *Blueprint, cfg Config, rng *rand.Rand) (*CompactBlueprint, error) {
	if bp == nil {
		return nil, errors.New("cfr: nil blueprint")
	}

	keys := make([][]byte, 0, len(bp.Strategies))
	sampled := make([]action.Action, 0, len(bp.Strategies))

	for key, strat := range bp.Strategies {
		h, err := replayHistoryFromPath([]byte(key.Path), cfg.BetAbstraction, cfg.StackSize, cfg.BigBlind)
		if err != nil {
			return nil, fmt.Errorf("cfr: replay info set %q: %w", key.Path, err)
		}
		candidates := h.NextActions(cfg.BetAbstraction)
		if len(candidates) == 0 {
			continue
		}
		idx, _ := sampleIndex(strat[:len(candidates)], rng)
		keys = append(keys, []byte(keyToWireString(key)))
		sampled = append(sampled, candidates[idx])
	}

	builder := chd.NewBuilder()
	for i, k := range keys {
		if err := builder.Add(k, uint64(i)); err != nil {
			return nil, fmt.Errorf("cfr: index compact blueprint key %d: %w", i, err)
		}
	}
	index, err := builder.Freeze()
	if err != nil {
		return nil, fmt.Errorf("cfr: freeze compact blueprint index: %w", err)
	}

	return &CompactBlueprint{keys: keys, actions: sampled, index: index}, nil
}

// Lookup returns the sampled action for key, if key was present when the
// compact blueprint was built. A minimal perfect hash returns a valid-range
// index for any input, including keys it was never built from, so every
// lookup must verify the returned slot's actual key matches before trusting
// its value.
func (c *CompactBlueprint) Lookup(key InfoSetKey) (action.Action, bool) {
	if c == nil || c.index == nil {
		return action.Action{}, false
	}
	wire := []byte(keyToWireString(key))
	slot := c.index.Find(wire)
	if slot >= uint64(len(c.keys)) {
		return action.Action{}, false
	}
	if string(c.keys[slot]) != string(wire) {
		return action.Action{}, false
	}
	return c.actions[slot], true
}

// compactBlueprintWireFormat is the on-disk form: the key/action pairs are
// persisted directly, and the CHD index is rebuilt on load rather than
// serialized, since a rebuild from the same (deterministic) key order
// reproduces the same index and avoids depending on go-chd's own binary
// format remaining stable across versions.
type compactBlueprintWireFormat struct {
	Version int      `json:"version"`
	Keys    []string `json:"keys"`
	Actions []action.Action `json:"actions"`
}

// Save writes the compact blueprint's key/action pairs to path.
func (c *CompactBlueprint) Save(path string) error {
	if c == nil {
		return errors.New("cfr: nil compact blueprint")
	}
	wire := compactBlueprintWireFormat{
		Version: compactBlueprintFileVersion,
		Keys:    make([]string, len(c.keys)),
		Actions: c.actions,
	}
	for i, k := range c.keys {
		wire.Keys[i] = string(k)
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// LoadCompactBlueprint reads a compact blueprint previously written by Save
// and rebuilds its minimal perfect hash index.
func LoadCompactBlueprint(path string) (*CompactBlueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wire compactBlueprintWireFormat
	if err := json.NewDecoder(f).Decode(&wire); err != nil {
		return nil, err
	}
	if wire.Version != compactBlueprintFileVersion {
		return nil, errors.New("cfr: unsupported compact blueprint version")
	}

	keys := make([][]byte, len(wire.Keys))
	builder := chd.NewBuilder()
	for i, k := range wire.Keys {
		keys[i] = []byte(k)
		if err := builder.Add(keys[i], uint64(i)); err != nil {
			return nil, fmt.Errorf("cfr: index compact blueprint key %d: %w", i, err)
		}
	}
	index, err := builder.Freeze()
	if err != nil {
		return nil, fmt.Errorf("cfr: freeze compact blueprint index: %w", err)
	}

	return &CompactBlueprint{keys: keys, actions: wire.Actions, index: index}, nil
}

// replayHistoryFromPath rebuilds the ActionHistory that produced path, by
// replaying each byte as an index into the legal actions available at that
// point, exactly as History.Compress records them.
func replayHistoryFromPath(path []byte, bets action.BetAbstraction, stackSize, bigBlind int) (*action.History, error) {
	h := action.New(stackSize, bigBlind)
	for _, b := range path {
		candidates := h.NextActions(bets)
		idx := int(b)
		if idx < 0 || idx >= len(candidates) {
			return nil, fmt.Errorf("cfr: path byte %d out of range for %d candidates", idx, len(candidates))
		}
		h.Add(candidates[idx])
	}
	return h, nil
}
