package game

import (
	"fmt"
	"strings"

	"github.com/lox/hanabi/internal/deck"
)

// MoveType tags the kind of move
type MoveType string

const (
	MovePlay    MoveType = "play"
	MoveDiscard MoveType = "discard"
	MoveHint    MoveType = "hint"
	MoveRestart MoveType = "restart"
)

// String returns the string representation of the move type
func (mt MoveType) String() string {
	return string(mt)
}

// Hint names the colour and/or rank being pointed out. Zero fields are unset.
type Hint struct {
	Color deck.Color `json:"color,omitempty"`
	Rank  deck.Rank  `json:"rank,omitempty"`
}

// ColorHint hints every card of colour c.
func ColorHint(c deck.Color) Hint { return Hint{Color: c} }

// RankHint hints every card of rank r.
func RankHint(r deck.Rank) Hint { return Hint{Rank: r} }

// Valid reports whether the hint names at least one attribute and every
// named attribute is a real value.
func (h Hint) Valid() bool {
	if h.Color == deck.NoColor && h.Rank == 0 {
		return false
	}
	if h.Color != deck.NoColor && !h.Color.Valid() {
		return false
	}
	if h.Rank != 0 && !h.Rank.Valid() {
		return false
	}
	return true
}

func (h Hint) String() string {
	var parts []string
	if h.Color != deck.NoColor {
		parts = append(parts, "color="+h.Color.String())
	}
	if h.Rank != 0 {
		parts = append(parts, "rank="+h.Rank.String())
	}
	return strings.Join(parts, " ")
}

// Move is a request from PlayerID. CardIndex applies to play and discard,
// TargetID and Hint to hint.
type Move struct {
	Type      MoveType `json:"type"`
	PlayerID  string   `json:"playerId"`
	CardIndex int      `json:"cardIndex"`
	TargetID  string   `json:"targetId,omitempty"`
	Hint      Hint     `json:"hint"`
}

// PlayMove plays the card in slot index.
func PlayMove(playerID string, index int) Move {
	return Move{Type: MovePlay, PlayerID: playerID, CardIndex: index}
}

// DiscardMove discards the card in slot index.
func DiscardMove(playerID string, index int) Move {
	return Move{Type: MoveDiscard, PlayerID: playerID, CardIndex: index}
}

// HintMove gives targetID a hint.
func HintMove(playerID, targetID string, hint Hint) Move {
	return Move{Type: MoveHint, PlayerID: playerID, TargetID: targetID, Hint: hint}
}

// RestartMove restarts the game with the same roster.
func RestartMove(playerID string) Move {
	return Move{Type: MoveRestart, PlayerID: playerID}
}

func (m Move) String() string {
	switch m.Type {
	case MovePlay, MoveDiscard:
		return fmt.Sprintf("%s %s %d", m.PlayerID, m.Type, m.CardIndex)
	case MoveHint:
		return fmt.Sprintf("%s hint %s %s", m.PlayerID, m.TargetID, m.Hint)
	default:
		return fmt.Sprintf("%s %s", m.PlayerID, m.Type)
	}
}
