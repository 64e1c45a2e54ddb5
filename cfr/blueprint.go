package cfr

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/handsup/hunl-solver/abstraction"
	"github.com/handsup/hunl-solver/fileutil"
)

const blueprintFileVersion = 1

// Blueprint is the offline-trained strategy: a map from InfoSet to the
// averaged ("cumulative") strategy over its legal actions, the format the
// bot front-end samples from at play time.
type Blueprint struct {
	Version     int                                `json:"version"`
	GeneratedAt time.Time                           `json:"generated_at"`
	Iterations  int                                 `json:"iterations"`
	Abstraction abstraction.Config                  `json:"abstraction"`
	Strategies  map[InfoSetKey][MaxActions]float64 `json:"-"`
}

// blueprintWireFormat is Blueprint's JSON-serializable shape: Go maps can't
// be keyed by a struct directly in encoding/json, so InfoSetKeys are
// flattened to a single string key for the wire format and reassembled on
// load.
type blueprintWireFormat struct {
	Version     int                    `json:"version"`
	GeneratedAt time.Time              `json:"generated_at"`
	Iterations  int                    `json:"iterations"`
	Abstraction abstraction.Config     `json:"abstraction"`
	Strategies  map[string][]float64   `json:"strategies"`
}

// keyToWireString/keyFromWireString flatten an InfoSetKey to a single JSON
// object key and back: the card bucket (a small non-negative integer) never
// collides with the '|' separator, and the compressed path never contains
// one either, since it is made of raw action-index bytes < MaxActions.
func keyToWireString(k InfoSetKey) string {
	return strconv.Itoa(int(k.CardBucket)) + "|" + k.Path
}

func keyFromWireString(s string) (InfoSetKey, error) {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return InfoSetKey{}, errors.New("cfr: malformed blueprint key " + s)
	}
	bucket, err := strconv.Atoi(parts[0])
	if err != nil {
		return InfoSetKey{}, err
	}
	return InfoSetKey{Path: parts[1], CardBucket: int32(bucket)}, nil
}

// Blueprint materializes the trainer's node store into a full blueprint by
// reading each node's CumulativeStrategy.
func (t *Trainer) Blueprint() *Blueprint {
	snap := t.store.Snapshot()
	strategies := make(map[InfoSetKey][MaxActions]float64, len(snap))
	for key, node := range snap {
		strategies[key] = node.CumulativeStrategy()
	}
	return &Blueprint{
		Version:     blueprintFileVersion,
		GeneratedAt: time.Now().UTC(),
		Iterations:  int(t.iteration.Load()),
		Abstraction: t.cfg.Abstraction,
		Strategies:  strategies,
	}
}

// Save writes the blueprint to path as JSON.
func (b *Blueprint) Save(path string) error {
	if b == nil {
		return errors.New("cfr: nil blueprint")
	}
	if path == "" {
		return errors.New("cfr: destination path is required")
	}

	wire := blueprintWireFormat{
		Version:     b.Version,
		GeneratedAt: b.GeneratedAt,
		Iterations:  b.Iterations,
		Abstraction: b.Abstraction,
		Strategies:  make(map[string][]float64, len(b.Strategies)),
	}
	for key, strat := range b.Strategies {
		wire.Strategies[keyToWireString(key)] = strat[:]
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// LoadBlueprint reads a blueprint previously written by Save.
func LoadBlueprint(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wire blueprintWireFormat
	if err := json.NewDecoder(f).Decode(&wire); err != nil {
		return nil, err
	}
	if wire.Version != blueprintFileVersion {
		return nil, errors.New("cfr: unsupported blueprint version")
	}
	if err := wire.Abstraction.Validate(); err != nil {
		return nil, err
	}

	b := &Blueprint{
		Version:     wire.Version,
		GeneratedAt: wire.GeneratedAt,
		Iterations:  wire.Iterations,
		Abstraction: wire.Abstraction,
		Strategies:  make(map[InfoSetKey][MaxActions]float64, len(wire.Strategies)),
	}
	for ks, strat := range wire.Strategies {
		key, err := keyFromWireString(ks)
		if err != nil {
			return nil, err
		}
		var arr [MaxActions]float64
		copy(arr[:], strat)
		b.Strategies[key] = arr
	}
	return b, nil
}

// Strategy returns the stored average strategy for key, if present.
func (b *Blueprint) Strategy(key InfoSetKey) ([MaxActions]float64, bool) {
	if b == nil {
		return [MaxActions]float64{}, false
	}
	strat, ok := b.Strategies[key]
	return strat, ok
}
