package game

import (
	"maps"

	"github.com/lox/hanabi/internal/deck"
)

// Outcome describes why a game finished
type Outcome string

const (
	OutcomeNone         Outcome = ""
	OutcomeStrikes      Outcome = "too many strikes"
	OutcomePerfectScore Outcome = "perfect score"
	OutcomeFinalRound   Outcome = "final round completed"
)

// Snapshot is a deep copy of the game state. Nothing in it aliases the
// engine, so it can be handed to any goroutine.
type Snapshot struct {
	Players             []Player           `json:"players"`
	Discard             []deck.Card        `json:"discard"`
	Fireworks           map[deck.Color]int `json:"fireworks"`
	DeckCount           int                `json:"deckCount"`
	Hints               int                `json:"hints"`
	Strikes             int                `json:"strikes"`
	Turn                int                `json:"turn"`
	CurrentPlayerIndex  int                `json:"currentPlayerIndex"`
	Finished            bool               `json:"finished"`
	FinalTurnsRemaining *int               `json:"finalTurnsRemaining,omitempty"`
	Outcome             Outcome            `json:"outcome,omitempty"`
	LogLines            []string           `json:"logLines"`
}

// Score is the combined height of all fireworks.
func (s Snapshot) Score() int {
	return totalScore(s.Fireworks)
}

// PlayerIndex returns the seat of the player with the given id, or -1.
func (s Snapshot) PlayerIndex(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// Player returns the player with the given id.
func (s Snapshot) Player(id string) (Player, bool) {
	if i := s.PlayerIndex(id); i >= 0 {
		return s.Players[i], true
	}
	return Player{}, false
}

// CurrentPlayer returns the player whose turn it is.
func (s Snapshot) CurrentPlayer() (Player, bool) {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// Playable reports whether card would extend its firework right now.
func (s Snapshot) Playable(card deck.Card) bool {
	return card.Rank == deck.Rank(s.Fireworks[card.Color]+1)
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i := range s.Players {
		out.Players[i] = s.Players[i].Clone()
	}
	out.Discard = make([]deck.Card, len(s.Discard))
	copy(out.Discard, s.Discard)
	out.Fireworks = maps.Clone(s.Fireworks)
	out.LogLines = make([]string, len(s.LogLines))
	copy(out.LogLines, s.LogLines)
	if s.FinalTurnsRemaining != nil {
		n := *s.FinalTurnsRemaining
		out.FinalTurnsRemaining = &n
	}
	return out
}

// MaskHand hides the true cards in the hand of the player at index, keeping
// card ids and known info.
func (s *Snapshot) MaskHand(index int) {
	if index < 0 || index >= len(s.Players) {
		return
	}
	hand := s.Players[index].Hand
	for i := range hand {
		hand[i] = hand[i].Masked()
	}
}

func newFireworks() map[deck.Color]int {
	fw := make(map[deck.Color]int, deck.NumColors)
	for _, c := range deck.Colors {
		fw[c] = 0
	}
	return fw
}

func totalScore(fireworks map[deck.Color]int) int {
	total := 0
	for _, v := range fireworks {
		total += v
	}
	return total
}
