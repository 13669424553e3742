package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is one of the five firework colours. The zero value NoColor marks an
// unrevealed or masked colour.
type Color uint8

const (
	NoColor Color = iota
	Red
	Blue
	Green
	Yellow
	White
)

// NumColors is the number of real colours in the deck.
const NumColors = 5

// Colors lists the playable colours in display order.
var Colors = [NumColors]Color{Red, Blue, Green, Yellow, White}

// String returns the lower-case colour name
func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case White:
		return "white"
	default:
		return ""
	}
}

// Valid reports whether c is one of the five real colours.
func (c Color) Valid() bool {
	return c >= Red && c <= White
}

// MarshalText implements encoding.TextMarshaler so colours serialise by name
// and can key JSON objects.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = NoColor
		return nil
	}
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses a colour name or its single-letter initial.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "blue", "b":
		return Blue, nil
	case "green", "g":
		return Green, nil
	case "yellow", "y":
		return Yellow, nil
	case "white", "w":
		return White, nil
	}
	return NoColor, fmt.Errorf("invalid color: %q", s)
}

// Rank is a card value from 1 to 5. Zero marks an unrevealed or masked rank.
type Rank int

const (
	MinRank Rank = 1
	MaxRank Rank = 5
)

// Valid reports whether r is between MinRank and MaxRank.
func (r Rank) Valid() bool {
	return r >= MinRank && r <= MaxRank
}

// String returns the numeric rank, or "?" when unknown
func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return strconv.Itoa(int(r))
}

// ParseRank parses a rank from its decimal form.
func ParseRank(s string) (Rank, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Rank(n).Valid() {
		return 0, fmt.Errorf("invalid rank: %q", s)
	}
	return Rank(n), nil
}

// Card is a single physical card. ID is unique within a deck.
type Card struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Rank  Rank   `json:"rank"`
}

// NewCard creates a card with the given identity.
func NewCard(id string, color Color, rank Rank) Card {
	return Card{ID: id, Color: color, Rank: rank}
}

// Masked returns the card with colour and rank hidden, keeping only its ID.
func (c Card) Masked() Card {
	return Card{ID: c.ID}
}

// IsMasked reports whether the card carries no colour or rank information.
func (c Card) IsMasked() bool {
	return c.Color == NoColor && c.Rank == 0
}

// String returns e.g. "red 3", or "??" for a masked card
func (c Card) String() string {
	if c.IsMasked() {
		return "??"
	}
	return fmt.Sprintf("%s %s", c.Color, c.Rank)
}
