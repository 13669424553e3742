package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/hanabi/internal/fileutil"
	"github.com/lox/hanabi/internal/randutil"
	"github.com/lox/hanabi/internal/simulator"
)

// SimulateCmd plays bot-only games and prints score statistics
type SimulateCmd struct {
	Games   int           `short:"g" default:"1000" help:"Number of games to simulate"`
	Players int           `short:"p" default:"3" help:"Players per game (2-5)"`
	Seed    int64         `default:"0" help:"Seed of the first game (0 for random)"`
	Workers int           `short:"w" default:"0" help:"Parallel games (0 for GOMAXPROCS)"`
	Timeout time.Duration `default:"0s" help:"Give up after this long (0 for no limit)"`
	Out     string        `short:"o" help:"Also write a JSON summary to this file"`
}

func (c *SimulateCmd) Run(cli *CLI) error {
	logger := setupLogger(os.Stderr, cli.LogLevel)

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting simulation", "games", c.Games, "players", c.Players, "seed", seed)

	sim := simulator.New(simulator.Config{
		Games:   c.Games,
		Players: c.Players,
		Seed:    seed,
		Workers: c.Workers,
		Timeout: c.Timeout,
		Logger:  logger,
	})

	start := time.Now()
	stats, err := sim.Run(setupSignalHandler(logger))
	if err != nil {
		return err
	}

	fmt.Print(simulator.Report(stats, c.Players, time.Since(start)))

	if c.Out != "" {
		if err := fileutil.WriteJSON(c.Out, stats.Summary()); err != nil {
			return err
		}
		logger.Info("Wrote summary", "file", c.Out)
	}
	return nil
}
