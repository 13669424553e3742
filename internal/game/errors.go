package game

import "errors"

// Move rejections. Each is returned before any state is touched.
var (
	ErrNoGame        = errors.New("game has not been set up")
	ErrOutOfTurn     = errors.New("it's not this player's turn")
	ErrInvalidIndex  = errors.New("invalid card index")
	ErrInvalidTarget = errors.New("invalid hint target")
	ErrInvalidHint   = errors.New("hint must name a valid color or rank")
	ErrNoHintTokens  = errors.New("no hint tokens left")
	ErrUnknownMove   = errors.New("unknown move type")
	ErrInvalidRoster = errors.New("invalid player roster")
)
