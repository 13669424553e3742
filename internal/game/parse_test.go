package game

import (
	"testing"

	"github.com/lox/hanabi/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	snap := Snapshot{Players: []Player{
		{ID: "p1", Name: "You"},
		{ID: "bot-1", Name: "Bob", IsBot: true},
	}}

	tests := []struct {
		input string
		want  Move
	}{
		{"play 0", PlayMove("p1", 0)},
		{"  P 3 ", PlayMove("p1", 3)},
		{"discard 2", DiscardMove("p1", 2)},
		{"d 4", DiscardMove("p1", 4)},
		{"hint bob red", HintMove("p1", "bot-1", ColorHint(deck.Red))},
		{"hint Bob 3", HintMove("p1", "bot-1", RankHint(3))},
		{"h bot-1 w", HintMove("p1", "bot-1", ColorHint(deck.White))},
		{"restart", RestartMove("p1")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMove(snap, "p1", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	snap := Snapshot{Players: []Player{{ID: "p1", Name: "You"}, {ID: "p2", Name: "Bob"}}}

	tests := []struct {
		input string
		want  error
	}{
		{"", ErrUnknownMove},
		{"juggle", ErrUnknownMove},
		{"play x", ErrInvalidIndex},
		{"hint carol red", ErrInvalidTarget},
		{"hint bob purple", ErrInvalidHint},
		{"hint bob 6", ErrInvalidHint},
	}

	for _, tt := range tests {
		_, err := ParseMove(snap, "p1", tt.input)
		assert.ErrorIs(t, err, tt.want, tt.input)
	}

	_, err := ParseMove(snap, "p1", "play")
	assert.Error(t, err)
}
