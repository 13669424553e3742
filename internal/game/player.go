package game

import (
	"fmt"

	"github.com/lox/hanabi/internal/deck"
)

// KnownInfo is what a player has been told about one of their own cards.
// Zero fields are unknown.
type KnownInfo struct {
	Color deck.Color `json:"color,omitempty"`
	Rank  deck.Rank  `json:"rank,omitempty"`
}

// Empty reports whether nothing is known about the slot.
func (k KnownInfo) Empty() bool {
	return k.Color == deck.NoColor && k.Rank == 0
}

// Player is a participant. Hand and KnownInfo are index-aligned; slot 0 is
// the oldest card.
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	IsBot     bool        `json:"isBot"`
	Hand      []deck.Card `json:"hand"`
	KnownInfo []KnownInfo `json:"knownInfo"`
}

// NewPlayer creates a human player
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// NewBot creates an automated player
func NewBot(id, name string) *Player {
	return &Player{ID: id, Name: name, IsBot: true}
}

// Validate checks that hand and known info are aligned.
func (p *Player) Validate() error {
	if len(p.Hand) != len(p.KnownInfo) {
		return fmt.Errorf("player %s: hand has %d cards but %d known info slots", p.ID, len(p.Hand), len(p.KnownInfo))
	}
	return nil
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() Player {
	out := Player{ID: p.ID, Name: p.Name, IsBot: p.IsBot}
	out.Hand = make([]deck.Card, len(p.Hand))
	copy(out.Hand, p.Hand)
	out.KnownInfo = make([]KnownInfo, len(p.KnownInfo))
	copy(out.KnownInfo, p.KnownInfo)
	return out
}

// removeAt takes the card and its known info out of slot i.
func (p *Player) removeAt(i int) deck.Card {
	card := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	p.KnownInfo = append(p.KnownInfo[:i], p.KnownInfo[i+1:]...)
	return card
}

// insertAt places a freshly drawn card into slot i with nothing known.
func (p *Player) insertAt(i int, card deck.Card) {
	p.Hand = append(p.Hand, deck.Card{})
	copy(p.Hand[i+1:], p.Hand[i:])
	p.Hand[i] = card

	p.KnownInfo = append(p.KnownInfo, KnownInfo{})
	copy(p.KnownInfo[i+1:], p.KnownInfo[i:])
	p.KnownInfo[i] = KnownInfo{}
}
