package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/hanabi/internal/bot"
	"github.com/lox/hanabi/internal/game"
	"github.com/lox/hanabi/internal/tui"
)

// PlayCmd starts a local game against bots
type PlayCmd struct {
	Bots     int           `short:"b" default:"2" help:"Number of bot players (1-4)"`
	Name     string        `short:"n" default:"You" help:"Your player name"`
	Seed     int64         `default:"0" help:"Deterministic shuffle seed (0 for random)"`
	BotDelay time.Duration `default:"350ms" help:"Pause before each bot move"`
	LogFile  string        `default:"hanabi.log" help:"Where to write logs while the TUI owns the terminal"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	if c.Bots < 1 || c.Bots > game.MaxPlayers-1 {
		return fmt.Errorf("bots must be between 1 and %d", game.MaxPlayers-1)
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := setupLogger(logFile, cli.LogLevel)

	opts := []game.Option{game.WithBotDelay(c.BotDelay)}
	if c.Seed != 0 {
		opts = append(opts, game.WithSeed(c.Seed))
	}
	engine := game.NewEngine(bot.NewBot(logger), logger, opts...)

	const playerID = "human"
	roster := []*game.Player{game.NewPlayer(playerID, c.Name)}
	for i := range c.Bots {
		roster = append(roster, game.NewBot(fmt.Sprintf("bot-%d", i+1), fmt.Sprintf("Bot %d", i+1)))
	}
	if err := engine.Setup(roster); err != nil {
		return err
	}

	model := tui.NewTUIModel(engine, playerID, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	snap := engine.Snapshot()
	fmt.Printf("Final score: %d/%d\n", snap.Score(), game.MaxScore)
	return nil
}
