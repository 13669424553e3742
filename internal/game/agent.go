package game

// Agent chooses moves for automated players. Agents receive an immutable
// snapshot and return a move - no state mutation allowed.
type Agent interface {
	// Decide returns the move playerID should make given snap
	Decide(snap Snapshot, playerID string) Move
}

// AgentFunc adapts a plain function to the Agent interface.
type AgentFunc func(snap Snapshot, playerID string) Move

// Decide calls f
func (f AgentFunc) Decide(snap Snapshot, playerID string) Move {
	return f(snap, playerID)
}
