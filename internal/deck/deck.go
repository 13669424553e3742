package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck.
const Size = 25

// rankCopies holds how many cards of each rank exist per colour.
var rankCopies = [MaxRank + 1]int{0, 3, 2, 2, 2, 1}

// CopiesOf returns how many cards of rank r exist in each colour.
func CopiesOf(r Rank) int {
	if !r.Valid() {
		return 0
	}
	return rankCopies[r]
}

// Composition returns the unshuffled full deck, ordered by colour then rank.
// Its ids name the card and must not reach players; Generate replaces them.
func Composition() []Card {
	cards := make([]Card, 0, Size)
	for _, color := range Colors {
		initial := color.String()[:1]
		for rank := MinRank; rank <= MaxRank; rank++ {
			for n := range rankCopies[rank] {
				id := fmt.Sprintf("%s%d.%d", initial, rank, n)
				cards = append(cards, NewCard(id, color, rank))
			}
		}
	}
	return cards
}

// Generate returns the full composition shuffled with rng. Cards are then
// renamed by their position in the shuffled pile, so an id says nothing about
// the card's colour or rank.
func Generate(rng *rand.Rand) []Card {
	cards := Composition()
	Shuffle(cards, rng)
	for i := range cards {
		cards[i].ID = fmt.Sprintf("card_%02d", i)
	}
	return cards
}

// Shuffle performs an in-place Fisher-Yates shuffle.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deck is the draw pile. Cards are drawn from the front.
type Deck struct {
	cards []Card
}

// New creates a freshly shuffled deck.
func New(rng *rand.Rand) *Deck {
	return &Deck{cards: Generate(rng)}
}

// FromCards creates a deck holding exactly cards, in order. Used to stack the
// deck for replays and tests.
func FromCards(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Len returns the number of cards left
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the remaining cards in draw order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
