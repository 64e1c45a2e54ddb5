package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/handsup/hunl-solver/abstraction"
	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/cfr"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train TrainCmd `cmd:"" help:"run DCFR training and emit a blueprint"`
	Eval  EvalCmd  `cmd:"" help:"evaluate a trained blueprint via self-play"`
}

type TrainCmd struct {
	Out             string        `help:"path to write the blueprint" required:""`
	Iterations      int           `help:"number of DCFR iterations" default:"100000"`
	Parallel        int           `help:"number of concurrent traversals" default:"1"`
	SmallBlind      int           `help:"small blind size" default:"50"`
	BigBlind        int           `help:"big blind size" default:"100"`
	Stack           int           `help:"starting stack size" default:"20000"`
	FlopBuckets     int           `help:"flop hand-abstraction bucket count" default:"50"`
	TurnBuckets     int           `help:"turn hand-abstraction bucket count" default:"50"`
	RiverBuckets    int           `help:"river hand-abstraction bucket count" default:"50"`
	Alpha           float64       `help:"DCFR positive-regret discount exponent" default:"1.5"`
	Beta            float64       `help:"DCFR negative-regret discount exponent" default:"0"`
	CheckpointPath  string        `help:"path to write periodic checkpoints"`
	CheckpointEvery time.Duration `help:"checkpoint interval" default:"10m"`
	EvalEvery       int           `help:"log progress every N iterations" default:"1000"`
	ResumeFrom      string        `help:"resume training from a checkpoint file"`
	CPUProfile      string        `help:"write a CPU profile to file"`
	Smoke           bool          `help:"apply a tiny preset for smoke-testing the pipeline"`
}

type EvalCmd struct {
	Blueprint  string `help:"path to a trained blueprint" required:""`
	Hands      int    `help:"number of self-play hands to simulate" default:"10000"`
	Seed       int64  `help:"random seed; 0 uses a time-derived seed" default:"0"`
	SmallBlind int    `help:"small blind size, must match training" default:"50"`
	BigBlind   int    `help:"big blind size, must match training" default:"100"`
	Stack      int    `help:"starting stack size, must match training" default:"20000"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("heads-up hold'em DCFR solver"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	var err error
	switch ctx.Command() {
	case "train":
		err = cli.Train.Run(context.Background())
	case "eval":
		err = cli.Eval.Run(context.Background())
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", ctx.Command()).Msg("command failed")
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	if cmd.CPUProfile != "" {
		f, err := os.Create(cmd.CPUProfile)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", cmd.CPUProfile).Msg("CPU profiling enabled")
	}

	var trainer *cfr.Trainer
	var err error

	if cmd.ResumeFrom != "" {
		trainer, err = cfr.LoadTrainerFromCheckpoint(cmd.ResumeFrom)
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		log.Info().Int64("resume_iteration", trainer.Iteration()).Str("checkpoint", cmd.ResumeFrom).Msg("resuming training run")
	} else {
		if cmd.Smoke {
			cmd.Stack = 2000
			cmd.SmallBlind = 25
			cmd.BigBlind = 50
			cmd.Iterations = 200
			cmd.FlopBuckets, cmd.TurnBuckets, cmd.RiverBuckets = 4, 4, 4
			log.Info().Msg("applying smoke preset")
		}

		cfg := cfr.DefaultConfig()
		cfg.StackSize = cmd.Stack
		cfg.SmallBlind = cmd.SmallBlind
		cfg.BigBlind = cmd.BigBlind
		cfg.BetAbstraction = action.DefaultBetAbstraction()
		cfg.Abstraction = abstraction.Config{
			FlopBuckets:  cmd.FlopBuckets,
			TurnBuckets:  cmd.TurnBuckets,
			RiverBuckets: cmd.RiverBuckets,
		}
		cfg.Alpha = cmd.Alpha
		cfg.Beta = cmd.Beta
		cfg.TrainIters = cmd.Iterations
		cfg.EvalEvery = cmd.EvalEvery
		cfg.ParallelIterations = cmd.Parallel
		cfg.CheckpointPath = cmd.CheckpointPath
		cfg.CheckpointEvery = cmd.CheckpointEvery

		trainer, err = cfr.NewTrainer(cfg)
		if err != nil {
			return err
		}
		log.Info().Int("iterations", cfg.TrainIters).Int("parallel", cfg.ParallelIterations).Msg("starting training run")
	}

	start := time.Now()
	progress := func(p cfr.Progress) {
		log.Info().
			Int("iteration", p.Iteration).
			Int("infosets", p.StoreSize).
			Int64("nodes", p.Stats.NodesVisited).
			Int64("terminals", p.Stats.TerminalNodes).
			Int("max_depth", p.Stats.MaxDepth).
			Dur("iter_time", p.Stats.IterationTime).
			Msg("progress")
	}

	if err := trainer.Run(ctx, progress); err != nil {
		return err
	}

	bp := trainer.Blueprint()
	duration := time.Since(start)
	log.Info().Dur("duration", duration).Int("infosets", len(bp.Strategies)).Msg("training completed")

	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	log.Info().Str("path", cmd.Out).Msg("blueprint saved")
	return nil
}

func (cmd *EvalCmd) Run(ctx context.Context) error {
	if cmd.Hands <= 0 {
		return fmt.Errorf("hands must be positive (got %d)", cmd.Hands)
	}
	bp, err := cfr.LoadBlueprint(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	log.Info().
		Time("generated", bp.GeneratedAt).
		Int("iterations", bp.Iterations).
		Int("infosets", len(bp.Strategies)).
		Msg("blueprint loaded")

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := cfr.DefaultConfig()
	cfg.StackSize = cmd.Stack
	cfg.SmallBlind = cmd.SmallBlind
	cfg.BigBlind = cmd.BigBlind
	cfg.Abstraction = bp.Abstraction
	cfg.BetAbstraction = action.DefaultBetAbstraction()

	res, err := runSelfPlay(ctx, cfg, bp, cmd.Hands, seed)
	if err != nil {
		return fmt.Errorf("run self-play: %w", err)
	}

	log.Info().
		Int("hands", res.hands).
		Float64("dealer_bb_per_100", res.dealerBBPer100).
		Msg("evaluation complete")
	return nil
}
