package cfr

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/handsup/hunl-solver/abstraction"
	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/card"
)

// TraversalStats captures per-iteration instrumentation, grounded on the
// teacher's TraversalStats/Progress plumbing (sdk/solver/trainer.go), now
// reporting over real DCFR iterations instead of placeholder updates.
type TraversalStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
	IterationTime time.Duration
}

// Progress is emitted periodically during a training run.
type Progress struct {
	Iteration int
	StoreSize int
	Stats     TraversalStats
}

// ExploitabilityProbe measures a blueprint's exploitability against a fixed
// best-response opponent. It is a pluggable hook: building a local best
// response is a supporting collaborator, not core CFR machinery, so the
// trainer only depends on this function type.
type ExploitabilityProbe func(*Blueprint) float64

// Trainer orchestrates external-sampling DCFR iterations over the
// abstracted heads-up hold'em tree.
type Trainer struct {
	cfg    Config
	bucket *abstraction.BucketMapper
	store  *NodeStore
	clock  quartz.Clock

	iteration atomic.Int64
	rngSeed   int64

	statsMu sync.Mutex
	stats   TraversalStats

	lastCheckpoint time.Time

	Probe ExploitabilityProbe
}

// NewTrainer constructs a trainer from cfg, using a real wall clock for
// checkpoint scheduling. Use WithClock to inject a fake clock in tests.
func NewTrainer(cfg Config) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mapper, err := abstraction.NewBucketMapper(cfg.Abstraction)
	if err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	return &Trainer{
		cfg:     cfg,
		bucket:  mapper,
		store:   NewNodeStore(),
		clock:   quartz.NewReal(),
		rngSeed: seed,
	}, nil
}

// WithClock overrides the trainer's clock, for deterministic checkpoint
// scheduling tests.
func (t *Trainer) WithClock(c quartz.Clock) *Trainer {
	t.clock = c
	return t
}

// Store exposes the underlying node store (e.g. for the bot front-end's
// blueprint lookups during real-time subgame solving).
func (t *Trainer) Store() *NodeStore { return t.store }

// Iteration returns the number of completed training iterations.
func (t *Trainer) Iteration() int64 { return t.iteration.Load() }

// Stats returns the most recently recorded per-iteration statistics.
func (t *Trainer) Stats() TraversalStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}

// Run executes cfg.TrainIters iterations, cfg.ParallelIterations at a time,
// invoking progress and the exploitability probe (each when non-nil) every
// cfg.EvalEvery iterations and checkpointing to cfg.CheckpointPath every
// cfg.CheckpointEvery of wall-clock time. A failed periodic checkpoint is
// logged and retried on the next CheckpointEvery tick; a failed final
// checkpoint is returned as an error.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	parallel := t.cfg.ParallelIterations
	if parallel <= 0 {
		parallel = 1
	}
	t.lastCheckpoint = t.clock.Now()

	target := int64(t.cfg.TrainIters)
	for t.iteration.Load() < target {
		remaining := target - t.iteration.Load()
		batch := int64(parallel)
		if remaining < batch {
			batch = remaining
		}

		g, gctx := errgroup.WithContext(ctx)
		statsCh := make(chan TraversalStats, batch)
		for i := int64(0); i < batch; i++ {
			idx := i
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				seed := t.rngSeed + t.iteration.Load() + idx
				rng := rand.New(rand.NewSource(seed))
				stats, err := t.singleIteration(rng)
				if err != nil {
					return err
				}
				statsCh <- stats
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		close(statsCh)

		var agg TraversalStats
		for s := range statsCh {
			agg.NodesVisited += s.NodesVisited
			agg.TerminalNodes += s.TerminalNodes
			if s.MaxDepth > agg.MaxDepth {
				agg.MaxDepth = s.MaxDepth
			}
			agg.IterationTime += s.IterationTime
		}
		t.setStats(agg)
		iter := t.iteration.Add(batch)

		if t.cfg.EvalEvery > 0 && iter%int64(t.cfg.EvalEvery) == 0 {
			if progress != nil {
				progress(Progress{Iteration: int(iter), StoreSize: t.store.Size(), Stats: agg})
			}
			if t.Probe != nil {
				_ = t.Probe(t.Blueprint())
			}
		}

		if t.cfg.CheckpointPath != "" && t.cfg.CheckpointEvery > 0 {
			if t.clock.Now().Sub(t.lastCheckpoint) >= t.cfg.CheckpointEvery {
				if err := t.SaveCheckpoint(t.cfg.CheckpointPath); err != nil {
					log.Warn().Err(err).Str("path", t.cfg.CheckpointPath).Msg("cfr: checkpoint failed; retrying next interval")
				}
				t.lastCheckpoint = t.clock.Now()
			}
		}
	}

	if t.cfg.CheckpointPath != "" {
		if err := t.SaveCheckpoint(t.cfg.CheckpointPath); err != nil {
			return fmt.Errorf("cfr: final checkpoint: %w", err)
		}
	}
	return nil
}

func (t *Trainer) setStats(s TraversalStats) {
	t.statsMu.Lock()
	t.stats = s
	t.statsMu.Unlock()
}

// singleIteration runs one DCFR iteration (both players as the traversing
// player, in turn) over a freshly shuffled deck.
func (t *Trainer) singleIteration(rng *rand.Rand) (TraversalStats, error) {
	start := time.Now()
	deck := card.NewDeck(rng)

	var stats TraversalStats
	for p := 0; p < 2; p++ {
		h := action.New(t.cfg.StackSize, t.cfg.BigBlind)
		t.iterate(deck, h, p, 1, 1, rng, &stats, 0)
	}
	stats.IterationTime = time.Since(start)
	return stats, nil
}

// iterate walks the tree per section 4.5's procedure: terminal histories
// return their utility directly; at the traversing player's own decisions
// every legal action is explored and regrets are updated from the resulting
// counterfactual values; at the opponent's decisions, external sampling
// draws a single action from the current strategy.
func (t *Trainer) iterate(deck card.Deck, h *action.History, p int, reachP, reachOpp float64, rng *rand.Rand, stats *TraversalStats, depth int) float64 {
	stats.NodesVisited++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if h.HandOver() {
		stats.TerminalNodes++
		return TerminalUtility(t.cfg, deck, h, p)
	}

	cards := t.bucketCards(deck, h)
	bucket := t.bucket.Bin(cards)
	key := BuildInfoSetKey(h, t.cfg.BetAbstraction, bucket)
	node := t.store.GetOrInsert(key, newNodeForHistory(h, t.cfg.BetAbstraction))
	actions := node.Actions()

	if h.Player() == p {
		strat := node.CurrentStrategy(reachP)
		util := make([]float64, len(actions))
		v := 0.0
		for i, a := range actions {
			child := h.Clone()
			child.Add(a)
			util[i] = t.iterate(deck, child, p, reachP*strat[i], reachOpp, rng, stats, depth+1)
			v += strat[i] * util[i]
		}
		for i := range actions {
			node.AddRegret(i, reachOpp*(util[i]-v), t.cfg.Alpha, t.cfg.Beta)
		}
		return v
	}

	strat := node.CurrentStrategy(reachOpp)
	idx, prob := sampleIndex(strat[:len(actions)], rng)
	child := h.Clone()
	child.Add(actions[idx])
	return t.iterate(deck, child, p, reachP, reachOpp*prob, rng, stats, depth+1)
}

// bucketCards returns the acting player's hole cards plus whatever board
// cards are live on the current street, the input to the hand abstraction.
func (t *Trainer) bucketCards(deck card.Deck, h *action.History) []card.Card {
	hole := deck.HoleCards(h.Player())
	board := deck.BoardCards(int(h.Street()))
	cards := make([]card.Card, 0, 2+len(board))
	cards = append(cards, hole[0], hole[1])
	cards = append(cards, board...)
	return cards
}

func sampleIndex(strat []float64, rng *rand.Rand) (int, float64) {
	total := 0.0
	for _, v := range strat {
		total += v
	}
	if total <= 0 {
		idx := rng.Intn(len(strat))
		return idx, 1.0 / float64(len(strat))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, v := range strat {
		acc += v
		if r <= acc {
			return i, v
		}
	}
	return len(strat) - 1, strat[len(strat)-1]
}
