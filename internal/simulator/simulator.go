package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/hanabi/internal/bot"
	"github.com/lox/hanabi/internal/game"
	"github.com/lox/hanabi/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// MaxTurns stops a game that has not finished by itself.
const MaxTurns = 5000

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Players int
	Seed    int64
	Workers int           // Parallel games, defaults to GOMAXPROCS
	Timeout time.Duration // Limit for the whole run, zero for none
	Logger  *log.Logger
}

// Simulator runs many all-bot games and aggregates their scores
type Simulator struct {
	config Config
	agent  game.Agent
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	return &Simulator{
		config: config,
		agent:  bot.NewBot(config.Logger),
	}
}

// Run plays every game and returns the aggregated statistics. Game i is
// seeded with Seed+i, so a run is reproducible regardless of worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	if s.config.Players < game.MinPlayers || s.config.Players > game.MaxPlayers {
		return nil, fmt.Errorf("players must be %d-%d, got %d", game.MinPlayers, game.MaxPlayers, s.config.Players)
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	results := make([]statistics.GameResult, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Games {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			result, err := s.PlayGame(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.config.Logger.Info("Simulation complete",
		"games", stats.Games,
		"players", s.config.Players,
		"mean", fmt.Sprintf("%.2f", stats.Mean()),
		"perfect", stats.PerfectGames)

	return stats, nil
}

// PlayGame runs a single seeded game to completion, driving every turn
// synchronously. A rejected move ends the game early, as does MaxTurns.
func (s *Simulator) PlayGame(ctx context.Context, seed int64) (statistics.GameResult, error) {
	engine := game.NewEngine(s.agent, log.New(io.Discard),
		game.WithSeed(seed),
		game.WithAutoplay(false),
	)

	players := make([]*game.Player, s.config.Players)
	for i := range players {
		players[i] = game.NewBot(fmt.Sprintf("bot-%d", i+1), fmt.Sprintf("Bot %d", i+1))
	}
	if err := engine.Setup(players); err != nil {
		return statistics.GameResult{}, err
	}

	result := statistics.GameResult{Seed: seed}
	for {
		if err := ctx.Err(); err != nil {
			return statistics.GameResult{}, err
		}

		snap := engine.Snapshot()
		if snap.Finished {
			break
		}
		if snap.Turn > MaxTurns {
			s.config.Logger.Warn("Turn cap reached", "seed", seed, "turn", snap.Turn)
			result.Aborted = true
			break
		}

		current, _ := snap.CurrentPlayer()
		move := s.agent.Decide(snap, current.ID)
		if err := engine.PerformMove(move); err != nil {
			if errors.Is(err, game.ErrOutOfTurn) || errors.Is(err, game.ErrNoGame) {
				return statistics.GameResult{}, err
			}
			s.config.Logger.Debug("Bot move rejected, ending game", "seed", seed, "move", move.String(), "error", err)
			result.Aborted = true
			break
		}
	}

	snap := engine.Snapshot()
	result.Score = snap.Score()
	result.Turns = snap.Turn
	result.Strikes = snap.Strikes
	result.Outcome = snap.Outcome
	return result, nil
}

// Report formats statistics as a human-readable summary
func Report(stats *statistics.Statistics, players int, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString("============================================\n")
	fmt.Fprintf(&b, "  HANABI AI SIMULATION: %d Games\n", stats.Games)
	fmt.Fprintf(&b, "  Players: %d Bots\n", players)
	b.WriteString("============================================\n\n")

	b.WriteString("--- Results ---\n")
	fmt.Fprintf(&b, "Total Execution Time: %.2fs\n", elapsed.Seconds())
	fmt.Fprintf(&b, "Average Score: %.2f / %d\n", stats.Mean(), game.MaxScore)
	lo, hi := stats.ConfidenceInterval95()
	fmt.Fprintf(&b, "95%% CI: [%.2f, %.2f]  StdDev: %.2f  Median: %.1f\n", lo, hi, stats.StdDev(), stats.Median())
	fmt.Fprintf(&b, "Perfect Games (Score %d): %d (%.2f%%)\n", game.MaxScore, stats.PerfectGames, stats.PerfectRate())
	fmt.Fprintf(&b, "Min/Max Score: %d / %d\n", stats.MinScore, stats.MaxScore)
	fmt.Fprintf(&b, "Average Strikes: %.2f\n", stats.AvgStrikes())
	fmt.Fprintf(&b, "Average Turns: %.2f\n", stats.AvgTurns())

	b.WriteString("\nOutcomes:\n")
	for _, o := range []game.Outcome{game.OutcomeFinalRound, game.OutcomePerfectScore, game.OutcomeStrikes} {
		fmt.Fprintf(&b, "  %-22s %d\n", string(o), stats.Outcomes[o])
	}
	if stats.Aborted > 0 {
		fmt.Fprintf(&b, "  %-22s %d\n", "stopped early", stats.Aborted)
	}
	b.WriteString("-----------------\n")

	return b.String()
}
