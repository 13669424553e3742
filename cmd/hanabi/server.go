package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/hanabi/internal/server"
)

// ServerCmd runs the room server
type ServerCmd struct {
	Config string `short:"c" default:"hanabi.hcl" help:"Path to HCL configuration file"`
	Addr   string `short:"a" help:"Server address to bind to (overrides config)"`
	Seed   int64  `help:"Deterministic shuffle seed (0 for random)"`
}

func (c *ServerCmd) Run(cli *CLI) error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Server.LogLevel
	if cli.LogLevel != "info" {
		level = cli.LogLevel
	}
	logger := setupLogger(os.Stderr, level)

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	wsServer := server.NewServer(addr, logger)
	opts := []server.ServiceOption{server.WithBotDelay(cfg.BotDelay())}
	if c.Seed != 0 {
		opts = append(opts, server.WithSeed(c.Seed))
	}
	gameService := server.NewGameService(wsServer, logger, opts...)
	wsServer.SetGameService(gameService)

	for _, roomCfg := range cfg.Rooms {
		room, err := gameService.CreateRoom(roomCfg)
		if err != nil {
			return fmt.Errorf("creating room %s: %w", roomCfg.Name, err)
		}
		logger.Info("Created room", "id", room.ID, "name", room.Name, "seats", room.Seats, "bots", room.Bots)
	}

	ctx := setupSignalHandler(logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := wsServer.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Info("Starting Hanabi server", "addr", addr, "rooms", len(cfg.Rooms), "bot_delay", cfg.BotDelay())
	return wsServer.Start()
}
