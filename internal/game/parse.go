package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/hanabi/internal/deck"
)

// ParseMove turns typed input such as "play 0", "discard 2", "hint bob red"
// or "hint bob 3" into a move for playerID. Hint targets match a player's id
// or name, ignoring case. Single-letter shorthands p, d and h are accepted.
func ParseMove(snap Snapshot, playerID, input string) (Move, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Move{}, fmt.Errorf("%w: empty input", ErrUnknownMove)
	}

	switch fields[0] {
	case "play", "p", "discard", "d":
		if len(fields) != 2 {
			return Move{}, fmt.Errorf("usage: %s <slot>", fields[0])
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidIndex, fields[1])
		}
		if fields[0][0] == 'p' {
			return PlayMove(playerID, index), nil
		}
		return DiscardMove(playerID, index), nil

	case "hint", "h":
		if len(fields) != 3 {
			return Move{}, fmt.Errorf("usage: hint <player> <color|rank>")
		}
		target, ok := findByIDOrName(snap, fields[1])
		if !ok {
			return Move{}, fmt.Errorf("%w: %q does not exist", ErrInvalidTarget, fields[1])
		}
		hint, err := parseHint(fields[2])
		if err != nil {
			return Move{}, err
		}
		return HintMove(playerID, target.ID, hint), nil

	case "restart":
		return RestartMove(playerID), nil
	}

	return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, fields[0])
}

func parseHint(s string) (Hint, error) {
	if r, err := deck.ParseRank(s); err == nil {
		return RankHint(r), nil
	}
	if c, err := deck.ParseColor(s); err == nil {
		return ColorHint(c), nil
	}
	return Hint{}, fmt.Errorf("%w: %q", ErrInvalidHint, s)
}

func findByIDOrName(snap Snapshot, s string) (Player, bool) {
	for _, p := range snap.Players {
		if strings.EqualFold(p.ID, s) {
			return p, true
		}
	}
	for _, p := range snap.Players {
		if strings.EqualFold(p.Name, s) {
			return p, true
		}
	}
	return Player{}, false
}
