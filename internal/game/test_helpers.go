package game

import (
	"io"
	"maps"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/hanabi/internal/deck"
)

// TestEngineOption configures test engine creation
type TestEngineOption func(*testEngineBuilder)

type testEngineBuilder struct {
	players   []*Player
	deck      []deck.Card
	discard   []deck.Card
	fireworks map[deck.Color]int
	hints     int
	strikes   int
	current   int
	agent     Agent
	opts      []Option
}

// WithPlayers seats players exactly as given, hands and known info included.
func WithPlayers(players ...*Player) TestEngineOption {
	return func(b *testEngineBuilder) { b.players = players }
}

// WithDeck stacks the draw pile; the first card is drawn first.
func WithDeck(cards ...deck.Card) TestEngineOption {
	return func(b *testEngineBuilder) { b.deck = cards }
}

// WithDiscard seeds the discard pile, oldest first.
func WithDiscard(cards ...deck.Card) TestEngineOption {
	return func(b *testEngineBuilder) { b.discard = cards }
}

func WithFireworks(fw map[deck.Color]int) TestEngineOption {
	return func(b *testEngineBuilder) {
		for c, v := range fw {
			b.fireworks[c] = v
		}
	}
}

func WithHints(n int) TestEngineOption {
	return func(b *testEngineBuilder) { b.hints = n }
}

func WithStrikes(n int) TestEngineOption {
	return func(b *testEngineBuilder) { b.strikes = n }
}

func WithCurrentPlayer(index int) TestEngineOption {
	return func(b *testEngineBuilder) { b.current = index }
}

func WithAgent(agent Agent) TestEngineOption {
	return func(b *testEngineBuilder) { b.agent = agent }
}

// WithEngineOptions passes regular engine options through.
func WithEngineOptions(opts ...Option) TestEngineOption {
	return func(b *testEngineBuilder) { b.opts = append(b.opts, opts...) }
}

// NewTestEngine creates an engine in a hand-built mid-game state without
// going through Setup. Autoplay is off and the clock is real unless
// overridden via WithEngineOptions.
func NewTestEngine(opts ...TestEngineOption) *Engine {
	b := &testEngineBuilder{
		fireworks: newFireworks(),
		hints:     MaxHints,
	}
	for _, opt := range opts {
		opt(b)
	}

	engineOpts := append([]Option{WithAutoplay(false), WithSeed(42), WithClock(quartz.NewReal())}, b.opts...)
	e := NewEngine(b.agent, log.New(io.Discard), engineOpts...)

	e.players = b.players
	for _, p := range e.players {
		if p.Hand == nil {
			p.Hand = []deck.Card{}
		}
		if p.KnownInfo == nil {
			p.KnownInfo = make([]KnownInfo, len(p.Hand))
		}
	}
	e.deck = deck.FromCards(b.deck)
	e.discard = append([]deck.Card{}, b.discard...)
	e.fireworks = maps.Clone(b.fireworks)
	e.hints = b.hints
	e.strikes = b.strikes
	e.currentPlayerIndex = b.current
	e.logLines = []string{"Game started"}
	e.generation = 1
	return e
}

// TestPlayer creates a human player holding hand with the given known info.
// Missing known info entries are empty.
func TestPlayer(id, name string, hand []deck.Card, known ...KnownInfo) *Player {
	p := NewPlayer(id, name)
	p.Hand = append([]deck.Card{}, hand...)
	p.KnownInfo = make([]KnownInfo, len(hand))
	copy(p.KnownInfo, known)
	return p
}
