package cfr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/handsup/hunl-solver/abstraction"
	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/fileutil"
)

const checkpointFileVersion = 1

type checkpointSnapshot struct {
	Version     int                 `json:"version"`
	Iteration   int64               `json:"iteration"`
	RNGSeed     int64               `json:"rng_seed"`
	Config      Config              `json:"config"`
	Abstraction abstraction.Config  `json:"abstraction"`
	Nodes       map[string]nodeSnap `json:"nodes"`
	Stats       TraversalStats      `json:"stats"`
}

type nodeSnap struct {
	Actions     [MaxActions]action.Action `json:"actions"`
	NumActions  int                       `json:"num_actions"`
	Regrets     [MaxActions]float64       `json:"regrets"`
	StrategySum [MaxActions]float64       `json:"strategy_sum"`
	T           float64                   `json:"t"`
}

// SaveCheckpoint writes a snapshot of the trainer's full node store to path,
// via a temp file plus atomic rename so a crash mid-write never corrupts
// the previous checkpoint.
func (t *Trainer) SaveCheckpoint(path string) error {
	snap := t.buildCheckpoint()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("cfr: encode checkpoint: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("cfr: persist checkpoint: %w", err)
	}
	return nil
}

// LoadTrainerFromCheckpoint restores a trainer (config, RNG seed, iteration
// count, and full node store) from a checkpoint written by SaveCheckpoint,
// for warm-starting a training run.
func LoadTrainerFromCheckpoint(path string) (*Trainer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := decodeCheckpoint(f)
	if err != nil {
		return nil, err
	}

	trainer, err := NewTrainer(snap.Config)
	if err != nil {
		return nil, err
	}
	trainer.iteration.Store(snap.Iteration)
	trainer.rngSeed = snap.RNGSeed
	trainer.stats = snap.Stats
	trainer.store = restoreNodeStore(snap.Nodes)
	return trainer, nil
}

func (t *Trainer) buildCheckpoint() *checkpointSnapshot {
	snap := &checkpointSnapshot{
		Version:     checkpointFileVersion,
		Iteration:   t.iteration.Load(),
		RNGSeed:     t.rngSeed,
		Config:      t.cfg,
		Abstraction: t.cfg.Abstraction,
		Nodes:       make(map[string]nodeSnap),
		Stats:       t.Stats(),
	}
	for key, node := range t.store.Snapshot() {
		snap.Nodes[keyToWireString(key)] = nodeSnap{
			Actions:     node.actions,
			NumActions:  node.numActions,
			Regrets:     node.regrets,
			StrategySum: node.strategySum,
			T:           node.t,
		}
	}
	return snap
}

func decodeCheckpoint(r io.Reader) (*checkpointSnapshot, error) {
	var snap checkpointSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Version != checkpointFileVersion {
		return nil, errors.New("cfr: unsupported checkpoint version")
	}
	if err := snap.Config.Validate(); err != nil {
		return nil, fmt.Errorf("cfr: checkpoint config invalid: %w", err)
	}
	return &snap, nil
}

func restoreNodeStore(snaps map[string]nodeSnap) *NodeStore {
	store := NewNodeStore()
	for ks, ns := range snaps {
		key, err := keyFromWireString(ks)
		if err != nil {
			continue
		}
		node := &Node{
			actions:     ns.Actions,
			numActions:  ns.NumActions,
			regrets:     ns.Regrets,
			strategySum: ns.StrategySum,
			t:           ns.T,
		}
		sh := store.shardFor(key)
		sh.mu.Lock()
		sh.entries[key] = node
		sh.mu.Unlock()
	}
	return store
}
