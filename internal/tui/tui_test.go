package tui

import (
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/hanabi/internal/deck"
	"github.com/lox/hanabi/internal/game"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func card(c deck.Color, r deck.Rank) deck.Card {
	return deck.Card{ID: c.String() + r.String(), Color: c, Rank: r}
}

func newTestModel(t *testing.T) (*TUIModel, *game.Engine) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests

	robo := game.TestPlayer("bot", "Robo", []deck.Card{card(deck.Blue, 2), card(deck.Green, 4)})
	robo.IsBot = true
	engine := game.NewTestEngine(
		game.WithPlayers(
			game.TestPlayer("you", "You", []deck.Card{card(deck.Red, 1), card(deck.White, 5)}),
			robo,
		),
		game.WithDeck(card(deck.Yellow, 3), card(deck.Yellow, 1)),
	)
	return NewTUIModel(engine, "you", logger), engine
}

func submit(m *TUIModel, input string) {
	m.actionInput.SetValue(input)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModelHidesOwnHand(t *testing.T) {
	m, _ := newTestModel(t)

	me, ok := m.State().Player("you")
	require.True(t, ok)
	for _, c := range me.Hand {
		assert.True(t, c.IsMasked())
	}
	robo, _ := m.State().Player("bot")
	assert.Equal(t, card(deck.Blue, 2), robo.Hand[0])
}

func TestModelPlaysTypedMove(t *testing.T) {
	m, _ := newTestModel(t)

	submit(m, "play 0")

	status, isErr := m.Status()
	assert.False(t, isErr, status)
	assert.Equal(t, 1, m.State().Fireworks[deck.Red])
	assert.Contains(t, m.State().LogLines, "[Turn 1] You successfully played red 1")
	assert.Empty(t, m.actionInput.Value())
}

func TestModelShowsRejectedMoves(t *testing.T) {
	m, _ := newTestModel(t)

	tests := []struct {
		input string
		want  string
	}{
		{"discard 9", "invalid card index"},
		{"hint nobody red", "nobody"},
		{"hint robo purple", "valid color or rank"},
		{"shuffle", "unknown move type"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			submit(m, tt.input)
			status, isErr := m.Status()
			assert.True(t, isErr)
			assert.Contains(t, status, tt.want)
			assert.Equal(t, 1, m.State().Turn, "rejected moves leave the game alone")
		})
	}
}

func TestModelFollowsEngineChanges(t *testing.T) {
	m, engine := newTestModel(t)

	require.NoError(t, engine.PerformMove(game.HintMove("you", "bot", game.RankHint(4))))

	msg := m.waitForChange()()
	require.IsType(t, changeMsg{}, msg)
	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "keeps listening for changes")

	assert.Equal(t, 2, m.State().Turn)
	assert.Equal(t, game.MaxHints-1, m.State().Hints)
	assert.False(t, m.isMyTurn())
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()

	assert.Contains(t, view, "Turn 1  Score 0/25")
	assert.Contains(t, view, "Hints 8/8  Strikes 0/3")
	assert.Contains(t, view, "[B2 G4]")
	assert.Contains(t, view, "[0:?? 1:??]")
	assert.Contains(t, view, "Your turn.")
	assert.Contains(t, view, "Game started")
}

func TestModelQuit(t *testing.T) {
	m, engine := newTestModel(t)

	submit(m, "quit")
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	// No longer subscribed, so changes do not queue up.
	require.NoError(t, engine.PerformMove(game.DiscardMove("you", 0)))
	assert.Empty(t, m.changes)
}

func TestModelViewListsRecentDiscards(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	// Nine discards, oldest first; only the last eight are listed.
	discards := []deck.Card{card(deck.White, 1)}
	for _, c := range deck.Colors[:4] {
		discards = append(discards, card(c, 1), card(c, 2))
	}
	engine := game.NewTestEngine(
		game.WithPlayers(
			game.TestPlayer("you", "You", []deck.Card{card(deck.Red, 3)}),
			game.TestPlayer("bot", "Robo", []deck.Card{card(deck.Blue, 4)}),
		),
		game.WithDiscard(discards...),
	)
	m := NewTUIModel(engine, "you", logger)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	view := m.View()

	assert.Contains(t, view, "Deck 0  Discarded 9")
	assert.Contains(t, view, "Discards [R1 R2 B1 B2 G1 G2 Y1 Y2]")
	assert.NotContains(t, view, "W1")
}
