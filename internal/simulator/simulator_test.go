package simulator

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/hanabi/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(games, players int) Config {
	return Config{
		Games:   games,
		Players: players,
		Seed:    12345,
		Workers: 4,
		Timeout: 30 * time.Second,
		Logger:  log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
	}
}

func TestNew(t *testing.T) {
	sim := New(Config{Games: 10, Players: 3})
	require.NotNil(t, sim)
	assert.Positive(t, sim.config.Workers)
	assert.NotNil(t, sim.config.Logger)
}

func TestRun(t *testing.T) {
	for players := game.MinPlayers; players <= game.MaxPlayers; players++ {
		stats, err := New(testConfig(20, players)).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 20, stats.Games)
		assert.GreaterOrEqual(t, stats.MinScore, 0)
		assert.LessOrEqual(t, stats.MaxScore, game.MaxScore)
		assert.Positive(t, stats.AvgTurns())
		assert.LessOrEqual(t, stats.AvgStrikes(), float64(game.MaxStrikes))
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := testConfig(16, 3)
	first, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	cfg.Workers = 1
	second, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.TotalTurns, second.TotalTurns)
}

func TestPlayGame(t *testing.T) {
	sim := New(testConfig(1, 2))
	result, err := sim.PlayGame(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), result.Seed)
	if !result.Aborted {
		assert.NotEqual(t, game.OutcomeNone, result.Outcome)
	}
	assert.LessOrEqual(t, result.Turns, MaxTurns+1)
}

func TestRunValidatesConfig(t *testing.T) {
	_, err := New(testConfig(0, 3)).Run(context.Background())
	assert.Error(t, err)

	_, err = New(testConfig(5, 1)).Run(context.Background())
	assert.Error(t, err)

	_, err = New(testConfig(5, 6)).Run(context.Background())
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(10, 3)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport(t *testing.T) {
	stats, err := New(testConfig(5, 3)).Run(context.Background())
	require.NoError(t, err)

	report := Report(stats, 3, 1500*time.Millisecond)
	assert.Contains(t, report, "HANABI AI SIMULATION: 5 Games")
	assert.Contains(t, report, "Players: 3 Bots")
	assert.Contains(t, report, "Total Execution Time: 1.50s")
	assert.Contains(t, report, "Average Score:")
	assert.Contains(t, report, "/ 25")
	assert.Contains(t, report, "Min/Max Score:")
}
