// Command bot is a thin smoke-test front end for the bot package's
// GetAction: it deals --hands hands (one by default) against itself, logging each seat's sampled
// action, without running the HTTP/websocket server that would otherwise
// front a live bot (out of scope per the solver's scope notes).
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/handsup/hunl-solver/abstraction"
	"github.com/handsup/hunl-solver/action"
	"github.com/handsup/hunl-solver/bot"
	"github.com/handsup/hunl-solver/card"
	"github.com/handsup/hunl-solver/cfr"
)

var cli struct {
	Debug      bool   `help:"enable debug logging"`
	Blueprint  string `help:"path to a trained blueprint" required:""`
	Hands      int    `help:"number of hands to play out and print" default:"1"`
	Seed       int64  `help:"random seed; 0 uses a time-derived seed" default:"0"`
	SmallBlind int    `help:"small blind size, must match training" default:"50"`
	BigBlind   int    `help:"big blind size, must match training" default:"100"`
	Stack      int    `help:"starting stack size, must match training" default:"20000"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("bot"),
		kong.Description("smoke-test the bot front end against its own blueprint"),
	)

	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("bot smoke test failed")
	}
}

func run() error {
	bp, err := cfr.LoadBlueprint(cli.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}

	cfg := cfr.DefaultConfig()
	cfg.StackSize = cli.Stack
	cfg.SmallBlind = cli.SmallBlind
	cfg.BigBlind = cli.BigBlind
	cfg.Abstraction = bp.Abstraction
	cfg.BetAbstraction = action.DefaultBetAbstraction()

	mapper, err := abstraction.NewBucketMapper(cfg.Abstraction)
	if err != nil {
		return fmt.Errorf("build bucket mapper: %w", err)
	}

	b, err := bot.New(bp, cfg, mapper)
	if err != nil {
		return fmt.Errorf("construct bot: %w", err)
	}

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < cli.Hands; i++ {
		deck := card.NewDeck(rng)
		h := action.New(cfg.StackSize, cfg.BigBlind)
		log.Info().Int("hand", i).Msg("dealing hand")

		for !h.HandOver() {
			player := h.Player()
			hole := deck.HoleCards(player)
			board := deck.BoardCards(int(h.Street()))

			a, err := b.GetAction(h, hole, board, rng)
			if err != nil {
				return fmt.Errorf("get action: %w", err)
			}
			log.Info().
				Int("player", player).
				Str("street", h.Street().String()).
				Str("action", a.String()).
				Msg("action")
			h.Add(a)
		}

		log.Info().Int("hand", i).Int("pot", h.Pot()).Msg("hand complete")
	}
	return nil
}
