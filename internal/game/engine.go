package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/hanabi/internal/deck"
	"github.com/lox/hanabi/internal/randutil"
)

const (
	MaxHints   = 8
	MaxStrikes = 3
	MaxScore   = 5 * deck.NumColors

	MinPlayers = 2
	MaxPlayers = 5

	// DefaultBotDelay is how long an automated player "thinks" before moving.
	DefaultBotDelay = 350 * time.Millisecond
)

// HandSize returns the initial hand size for a game of n players.
func HandSize(n int) int {
	if n <= 3 {
		return 5
	}
	return 4
}

// Phase is the coarse state of the game
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInProgress
	PhaseFinalRound
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseInProgress:
		return "in progress"
	case PhaseFinalRound:
		return "final round"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Engine is the authoritative state of one game. All methods are safe for
// concurrent use; turn ownership is the only ordering guarantee between
// competing submitters.
type Engine struct {
	mu sync.Mutex

	players             []*Player
	deck                *deck.Deck
	discard             []deck.Card
	fireworks           map[deck.Color]int
	hints               int
	strikes             int
	turn                int
	currentPlayerIndex  int
	finished            bool
	outcome             Outcome
	finalTurnsRemaining *int
	logLines            []string

	// generation changes on every setup and invalidates pending bot turns
	generation uint64

	agent    Agent
	notifier *Notifier
	rng      *rand.Rand
	clock    quartz.Clock
	botDelay time.Duration
	autoplay bool
	logger   *log.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithRand sets the source used to shuffle decks.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed shuffles decks from a deterministic seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = randutil.New(seed) }
}

// WithClock sets the clock used to schedule automated turns.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithBotDelay sets the pause before an automated player moves.
func WithBotDelay(d time.Duration) Option {
	return func(e *Engine) { e.botDelay = d }
}

// WithAutoplay controls whether automated players are scheduled by the
// engine. Callers that drive every turn themselves disable it.
func WithAutoplay(enabled bool) Option {
	return func(e *Engine) { e.autoplay = enabled }
}

// NewEngine creates an empty engine. agent decides for automated players.
func NewEngine(agent Agent, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		fireworks: newFireworks(),
		discard:   []deck.Card{},
		deck:      deck.FromCards(nil),
		hints:     MaxHints,
		turn:      1,
		agent:     agent,
		notifier:  NewNotifier(),
		clock:     quartz.NewReal(),
		botDelay:  DefaultBotDelay,
		autoplay:  true,
		logger:    logger.WithPrefix("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.New(randutil.Seed(0))
	}
	return e
}

// Setup starts a new game with the given roster. Only ID, Name and IsBot are
// taken from players; hands are dealt fresh.
func (e *Engine) Setup(players []*Player) error {
	if err := validateRoster(players); err != nil {
		return err
	}

	roster := make([]*Player, len(players))
	for i, p := range players {
		roster[i] = &Player{ID: p.ID, Name: p.Name, IsBot: p.IsBot}
	}

	e.mu.Lock()
	c := e.setupLocked(roster)
	e.mu.Unlock()

	e.afterCommit(c)
	return nil
}

func validateRoster(players []*Player) error {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return fmt.Errorf("%w: need %d-%d players, got %d", ErrInvalidRoster, MinPlayers, MaxPlayers, len(players))
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == nil || p.ID == "" {
			return fmt.Errorf("%w: player id required", ErrInvalidRoster)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidRoster, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func (e *Engine) setupLocked(players []*Player) commit {
	e.players = players
	e.deck = deck.New(e.rng)
	e.discard = []deck.Card{}
	e.fireworks = newFireworks()
	e.hints = MaxHints
	e.strikes = 0
	e.turn = 1
	e.currentPlayerIndex = 0
	e.finished = false
	e.outcome = OutcomeNone
	e.finalTurnsRemaining = nil
	e.generation++

	e.logLines = []string{"Game started"}
	e.dealHands()

	e.logger.Info("Game started", "players", len(players), "generation", e.generation)

	return e.commitLocked()
}

func (e *Engine) dealHands() {
	size := HandSize(len(e.players))
	for _, p := range e.players {
		p.Hand = make([]deck.Card, 0, size)
		p.KnownInfo = make([]KnownInfo, 0, size)
		for range size {
			card, ok := e.deck.Draw()
			if !ok {
				// A full deck always covers five hands of four.
				panic("deck ended during deal")
			}
			p.Hand = append(p.Hand, card)
			p.KnownInfo = append(p.KnownInfo, KnownInfo{})
		}
	}
}

// Snapshot returns a deep copy of the full state, including every hand.
// It is meant for bots and internal consumers, not for participants.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	players := make([]Player, len(e.players))
	for i, p := range e.players {
		players[i] = p.Clone()
	}
	s := Snapshot{
		Players:             players,
		Discard:             e.discard,
		Fireworks:           e.fireworks,
		DeckCount:           e.deck.Len(),
		Hints:               e.hints,
		Strikes:             e.strikes,
		Turn:                e.turn,
		CurrentPlayerIndex:  e.currentPlayerIndex,
		Finished:            e.finished,
		Outcome:             e.outcome,
		LogLines:            e.logLines,
		FinalTurnsRemaining: e.finalTurnsRemaining,
	}
	// Clone copies the remaining shared slices, map and pointer.
	return s.Clone()
}

// VisibleState returns a snapshot in which the player at playerIndex cannot
// see their own cards. Other hands stay visible.
func (e *Engine) VisibleState(playerIndex int) Snapshot {
	s := e.Snapshot()
	s.MaskHand(playerIndex)
	return s
}

// OnChange registers fn to be called after every committed change.
func (e *Engine) OnChange(fn func()) (unsubscribe func()) {
	return e.notifier.Subscribe(fn)
}

// Log returns a copy of the human-readable trace.
func (e *Engine) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.logLines))
	copy(out, e.logLines)
	return out
}

// Phase reports where the game is in its lifecycle.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case len(e.players) == 0:
		return PhaseSetup
	case e.finished:
		return PhaseFinished
	case e.finalTurnsRemaining != nil:
		return PhaseFinalRound
	default:
		return PhaseInProgress
	}
}

// FinalTurnsRemaining returns the final-round countdown, or nil until the
// deck has run out.
func (e *Engine) FinalTurnsRemaining() *int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalTurnsRemaining == nil {
		return nil
	}
	n := *e.finalTurnsRemaining
	return &n
}

// SuggestMove asks the agent what the automated player playerID would do
// now, without applying it.
func (e *Engine) SuggestMove(playerID string) (Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.findPlayer(playerID)
	if p == nil || !p.IsBot || e.agent == nil {
		return Move{}, false
	}
	return e.agent.Decide(e.snapshotLocked(), playerID), true
}

func (e *Engine) findPlayer(id string) *Player {
	for _, p := range e.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) log(msg string) {
	line := fmt.Sprintf("[Turn %d] %s", e.turn, msg)
	e.logLines = append(e.logLines, line)
	e.logger.Debug(msg, "turn", e.turn)
}

// commit describes the side effects owed once the lock is released.
type commit struct {
	notify  bool
	botTurn *botTurn
}

type botTurn struct {
	generation uint64
	playerID   string
}

// commitLocked marks a change for notification and, if the next player is
// automated, asks for their turn to be scheduled.
func (e *Engine) commitLocked() commit {
	c := commit{notify: true}
	if e.finished || !e.autoplay || e.agent == nil || len(e.players) == 0 {
		return c
	}
	if current := e.players[e.currentPlayerIndex]; current.IsBot {
		c.botTurn = &botTurn{generation: e.generation, playerID: current.ID}
	}
	return c
}

func (e *Engine) afterCommit(c commit) {
	if c.notify {
		e.notifier.Notify()
	}
	if c.botTurn != nil {
		e.scheduleBotTurn(*c.botTurn)
	}
}

func (e *Engine) scheduleBotTurn(bt botTurn) {
	e.logger.Debug("Scheduling bot turn", "player", bt.playerID, "delay", e.botDelay)
	e.clock.AfterFunc(e.botDelay, func() {
		e.runBotTurn(bt)
	}, "engine", "bot-turn")
}

// runBotTurn plays a scheduled automated turn unless the game moved on while
// the timer was pending.
func (e *Engine) runBotTurn(bt botTurn) {
	e.mu.Lock()
	if bt.generation != e.generation || e.finished || len(e.players) == 0 ||
		e.players[e.currentPlayerIndex].ID != bt.playerID {
		e.mu.Unlock()
		e.logger.Debug("Dropping stale bot turn", "player", bt.playerID)
		return
	}

	bot := e.players[e.currentPlayerIndex]
	move := e.agent.Decide(e.snapshotLocked(), bot.ID)

	c, err := e.performMoveLocked(move)
	if err != nil {
		e.logger.Error("Bot move rejected", "player", bot.Name, "move", move.String(), "error", err)
		e.log(fmt.Sprintf("Bot %s error: %v", bot.Name, err))
		c = e.finishTurnLocked()
	}
	if e.finished {
		e.log("Game finished after bot move.")
		e.logger.Info("Game finished after bot move", "player", bot.Name)
	}
	e.mu.Unlock()

	e.afterCommit(c)
}
