package game

import (
	"fmt"

	"github.com/lox/hanabi/internal/deck"
)

// PerformMove validates and applies m. A rejected move returns an error and
// leaves the game untouched. Moves other than restart are ignored once the
// game is finished.
func (e *Engine) PerformMove(m Move) error {
	e.mu.Lock()
	c, err := e.performMoveLocked(m)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.afterCommit(c)
	return nil
}

func (e *Engine) performMoveLocked(m Move) (commit, error) {
	if m.Type == MoveRestart {
		if len(e.players) == 0 {
			return commit{}, nil
		}
		e.log("Game restarted.")
		e.logger.Info("Game restarted", "by", m.PlayerID)
		return e.setupLocked(e.players), nil
	}

	if e.finished {
		e.log("Move ignored — game already finished")
		return commit{}, nil
	}

	if len(e.players) == 0 {
		return commit{}, ErrNoGame
	}
	player := e.players[e.currentPlayerIndex]
	if m.PlayerID != player.ID {
		return commit{}, fmt.Errorf("%w: %s tried to move during %s's turn", ErrOutOfTurn, m.PlayerID, player.ID)
	}

	switch m.Type {
	case MovePlay:
		if err := checkIndex(player, m.CardIndex); err != nil {
			return commit{}, err
		}
		e.applyPlay(player, m.CardIndex)
	case MoveDiscard:
		if err := checkIndex(player, m.CardIndex); err != nil {
			return commit{}, err
		}
		e.applyDiscard(player, m.CardIndex)
	case MoveHint:
		target, err := e.checkHint(player, m)
		if err != nil {
			return commit{}, err
		}
		e.applyHint(player, target, m.Hint)
	default:
		return commit{}, fmt.Errorf("%w: %q", ErrUnknownMove, m.Type)
	}

	return e.finishTurnLocked(), nil
}

func checkIndex(p *Player, i int) error {
	if i < 0 || i >= len(p.Hand) {
		return fmt.Errorf("%w: %d (hand has %d cards)", ErrInvalidIndex, i, len(p.Hand))
	}
	return nil
}

func (e *Engine) checkHint(giver *Player, m Move) (*Player, error) {
	target := e.findPlayer(m.TargetID)
	if target == nil {
		return nil, fmt.Errorf("%w: %q does not exist", ErrInvalidTarget, m.TargetID)
	}
	if target.ID == giver.ID {
		return nil, fmt.Errorf("%w: player cannot hint themselves", ErrInvalidTarget)
	}
	if !m.Hint.Valid() {
		return nil, ErrInvalidHint
	}
	if e.hints <= 0 {
		return nil, ErrNoHintTokens
	}
	return target, nil
}

func (e *Engine) playable(card deck.Card) bool {
	return card.Rank == deck.Rank(e.fireworks[card.Color]+1)
}

func (e *Engine) applyPlay(player *Player, index int) {
	card := player.Hand[index]

	if e.playable(card) {
		e.fireworks[card.Color]++
		e.log(fmt.Sprintf("%s successfully played %s", player.Name, card))

		if card.Rank == deck.MaxRank && e.hints < MaxHints {
			e.hints++
			e.log("Completed a 5 — gained a hint.")
		}
	} else {
		e.discard = append(e.discard, card)
		e.strikes++
		e.log(fmt.Sprintf("%s failed play %s — strike %d", player.Name, card, e.strikes))
	}

	e.replaceCard(player, index)
}

func (e *Engine) applyDiscard(player *Player, index int) {
	card := player.Hand[index]

	e.discard = append(e.discard, card)
	e.log(fmt.Sprintf("%s discarded %s", player.Name, card))

	if e.hints < MaxHints {
		e.hints++
	}

	e.replaceCard(player, index)
}

func (e *Engine) applyHint(giver, target *Player, hint Hint) {
	e.hints--

	for i, card := range target.Hand {
		info := &target.KnownInfo[i]
		if hint.Color != deck.NoColor && card.Color == hint.Color {
			info.Color = hint.Color
		}
		if hint.Rank != 0 && card.Rank == hint.Rank {
			info.Rank = hint.Rank
		}
	}

	e.log(fmt.Sprintf("%s hinted %s: %s", giver.Name, target.Name, hint))
}

// replaceCard removes slot index and, while the deck lasts, refills the same
// slot with an unknown card.
func (e *Engine) replaceCard(player *Player, index int) {
	player.removeAt(index)
	if card, ok := e.deck.Draw(); ok {
		player.insertAt(index, card)
	}
}

// finishTurnLocked arms the final round, checks for the end of the game and
// otherwise passes the turn on.
func (e *Engine) finishTurnLocked() commit {
	if e.deck.IsEmpty() && e.finalTurnsRemaining == nil {
		n := len(e.players)
		e.finalTurnsRemaining = &n
		e.log("Deck empty — final round begins")
	}

	switch {
	case e.strikes >= MaxStrikes:
		e.finish(OutcomeStrikes, "Game over — too many strikes")
	case totalScore(e.fireworks) >= MaxScore:
		e.finish(OutcomePerfectScore, "Perfect score! All fireworks completed.")
	case e.finalTurnsRemaining != nil && e.finalRoundStep():
		e.finish(OutcomeFinalRound, "Final round completed — game finished")
	default:
		e.currentPlayerIndex = (e.currentPlayerIndex + 1) % len(e.players)
		e.turn++
	}

	return e.commitLocked()
}

// finalRoundStep consumes one final-round turn and reports whether none remain.
func (e *Engine) finalRoundStep() bool {
	*e.finalTurnsRemaining--
	return *e.finalTurnsRemaining <= 0
}

func (e *Engine) finish(outcome Outcome, msg string) {
	e.finished = true
	e.outcome = outcome
	e.log(msg)
	e.logger.Info("Game finished", "outcome", string(outcome), "score", totalScore(e.fireworks), "turn", e.turn)
}
