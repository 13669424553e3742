package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`

	Server   ServerCmd   `cmd:"" help:"Run the multiplayer WebSocket server"`
	Simulate SimulateCmd `cmd:"" help:"Play many bot-only games and report scores"`
	Play     PlayCmd     `cmd:"" help:"Play a game against bots in the terminal"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("hanabi"),
		kong.Description("Cooperative fireworks card game with a heuristic bot"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
