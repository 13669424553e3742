// Package game implements the rules engine for a cooperative fireworks card
// game for two to five players.
//
// The main type is Engine, which owns the authoritative state of one game:
// hands, draw pile, fireworks, hint and strike tokens, the turn order and a
// human-readable log. All state changes go through PerformMove.
//
// # Basic Usage
//
//	e := game.NewEngine(bot.NewBot(logger), logger)
//	_ = e.Setup([]*game.Player{game.NewPlayer("p1", "You"), game.NewBot("b1", "Bot 1")})
//	_ = e.PerformMove(game.HintMove("p1", "b1", game.RankHint(1)))
//
// Automated players are scheduled on the engine's clock after each change.
// Observers subscribe with OnChange and pull a fresh Snapshot or
// VisibleState when called.
//
// # Deterministic Testing
//
// Shuffles come from an injected source:
//
//	e := game.NewEngine(agent, logger, game.WithSeed(42))
//
// NewTestEngine builds an engine in an arbitrary mid-game position with a
// stacked draw pile.
package game
