package bot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/hanabi/internal/deck"
	"github.com/lox/hanabi/internal/game"
)

// Bot is the fixed-priority heuristic player. It satisfies game.Agent.
type Bot struct {
	logger *log.Logger
}

// Decision is a move together with the reasoning that produced it.
type Decision struct {
	Move      game.Move
	Reasoning string
}

// NewBot creates a new bot
func NewBot(logger *log.Logger) *Bot {
	return &Bot{
		logger: logger.WithPrefix("bot"),
	}
}

// Decide implements game.Agent.
func (b *Bot) Decide(snap game.Snapshot, playerID string) game.Move {
	return b.MakeDecision(snap, playerID).Move
}

// MakeDecision analyzes the snapshot and returns a decision with reasoning.
// It never fails: with nothing better to do it discards slot 0.
func (b *Bot) MakeDecision(snap game.Snapshot, playerID string) Decision {
	thinking := &ThinkingContext{}

	seat := snap.PlayerIndex(playerID)
	if seat < 0 {
		thinking.AddThought("Not seated at this game")
		return b.decided(playerID, game.DiscardMove(playerID, 0), thinking)
	}
	me := snap.Players[seat]

	if move, ok := certainPlay(snap, me, thinking); ok {
		return b.decided(me.Name, move, thinking)
	}

	if snap.Hints > 0 {
		if move, ok := chooseHint(snap, seat, thinking); ok {
			return b.decided(me.Name, move, thinking)
		}
	} else {
		thinking.AddThought("No hint tokens")
	}

	return b.decided(me.Name, chooseDiscard(me, thinking), thinking)
}

func (b *Bot) decided(name string, move game.Move, thinking *ThinkingContext) Decision {
	d := Decision{Move: move, Reasoning: thinking.GetThoughts()}
	b.logger.Debug("Bot decision made",
		"player", name,
		"decision", move.String(),
		"reasoning", d.Reasoning)
	return d
}

// certainPlay looks for an own slot with a revealed colour that is safe to
// play. The true-rank check deliberately peeks at the real card.
func certainPlay(snap game.Snapshot, me game.Player, thinking *ThinkingContext) (game.Move, bool) {
	for i, info := range me.KnownInfo {
		if info.Color == deck.NoColor || i >= len(me.Hand) {
			continue
		}
		required := deck.Rank(snap.Fireworks[info.Color] + 1)

		switch {
		case info.Rank == required:
			thinking.AddThought(fmt.Sprintf("Slot %d is a known %s %s, next on its firework", i, info.Color, info.Rank))
		case info.Rank == deck.MaxRank:
			thinking.AddThought(fmt.Sprintf("Slot %d is a known %s 5", i, info.Color))
		case me.Hand[i].Rank == required:
			thinking.AddThought(fmt.Sprintf("Slot %d is %s and fits the %s firework", i, info.Color, info.Color))
		default:
			continue
		}
		return game.PlayMove(me.ID, i), true
	}
	return game.Move{}, false
}

func chooseHint(snap game.Snapshot, seat int, thinking *ThinkingContext) (game.Move, bool) {
	me := snap.Players[seat]

	if snap.Hints >= game.MaxHints {
		thinking.AddThought("Hint tokens are full")
		if target, _, ok := findCard(snap, seat, liveUnknownFive(snap)); ok {
			thinking.AddThought(fmt.Sprintf("Warning %s about a 5", target.Name))
			return game.HintMove(me.ID, target.ID, game.RankHint(deck.MaxRank)), true
		}
		next := snap.Players[(seat+1)%len(snap.Players)]
		if len(next.Hand) > 0 {
			color := next.Hand[0].Color
			thinking.AddThought(fmt.Sprintf("Spending a token on %s's first card", next.Name))
			return game.HintMove(me.ID, next.ID, game.ColorHint(color)), true
		}
	}

	if target, _, ok := findCard(snap, seat, func(c deck.Card, info game.KnownInfo) bool {
		return c.Rank == deck.MinRank && snap.Fireworks[c.Color] == 0 && info.Rank != deck.MinRank
	}); ok {
		thinking.AddThought(fmt.Sprintf("%s holds a 1 for an empty firework", target.Name))
		return game.HintMove(me.ID, target.ID, game.RankHint(deck.MinRank)), true
	}

	if target, card, ok := findCard(snap, seat, func(c deck.Card, _ game.KnownInfo) bool {
		return snap.Playable(c)
	}); ok {
		thinking.AddThought(fmt.Sprintf("%s holds a playable %s", target.Name, card))
		return game.HintMove(me.ID, target.ID, game.ColorHint(card.Color)), true
	}

	if target, _, ok := findCard(snap, seat, liveUnknownFive(snap)); ok {
		thinking.AddThought(fmt.Sprintf("Protecting %s's 5", target.Name))
		return game.HintMove(me.ID, target.ID, game.RankHint(deck.MaxRank)), true
	}

	thinking.AddThought("Nothing worth hinting")
	return game.Move{}, false
}

// liveUnknownFive matches a 5 whose firework is still open and whose holder
// has not been told it is a 5.
func liveUnknownFive(snap game.Snapshot) func(deck.Card, game.KnownInfo) bool {
	return func(c deck.Card, info game.KnownInfo) bool {
		return c.Rank == deck.MaxRank && snap.Fireworks[c.Color] < int(deck.MaxRank) && info.Rank != deck.MaxRank
	}
}

// findCard scans every other player's hand in seating order and returns the
// first card matching pred.
func findCard(snap game.Snapshot, seat int, pred func(deck.Card, game.KnownInfo) bool) (game.Player, deck.Card, bool) {
	for i, p := range snap.Players {
		if i == seat {
			continue
		}
		for j, c := range p.Hand {
			var info game.KnownInfo
			if j < len(p.KnownInfo) {
				info = p.KnownInfo[j]
			}
			if pred(c, info) {
				return p, c, true
			}
		}
	}
	return game.Player{}, deck.Card{}, false
}

func chooseDiscard(me game.Player, thinking *ThinkingContext) game.Move {
	for i, info := range me.KnownInfo {
		if info.Empty() {
			thinking.AddThought(fmt.Sprintf("Discarding unknown slot %d", i))
			return game.DiscardMove(me.ID, i)
		}
	}
	for i, info := range me.KnownInfo {
		if info.Rank != deck.MinRank && info.Rank != deck.MaxRank {
			thinking.AddThought(fmt.Sprintf("Discarding slot %d, not a known 1 or 5", i))
			return game.DiscardMove(me.ID, i)
		}
	}
	thinking.AddThought("Every slot looks valuable, discarding slot 0")
	return game.DiscardMove(me.ID, 0)
}

// ThinkingContext accumulates thoughts during decision making
type ThinkingContext struct {
	thoughts []string
}

// AddThought adds a thought to the thinking process
func (tc *ThinkingContext) AddThought(thought string) {
	tc.thoughts = append(tc.thoughts, thought)
}

// GetThoughts returns the complete stream of thoughts
func (tc *ThinkingContext) GetThoughts() string {
	if len(tc.thoughts) == 0 {
		return "No clear reasoning available"
	}
	return strings.Join(tc.thoughts, ". ")
}
