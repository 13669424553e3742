package server

import (
	"encoding/json"
	"time"

	"github.com/lox/hanabi/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// JoinData asks to sit in a room, by room id or name. Unknown names create
// the room.
type JoinData struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

// StartData starts the game in the sender's room. Bots overrides the room's
// configured bot count when positive.
type StartData struct {
	Bots int `json:"bots,omitempty"`
}

// MoveData is a move made by the sending connection. The acting player is
// always the connection's own identity.
type MoveData struct {
	Type      game.MoveType `json:"type"`
	CardIndex int           `json:"cardIndex"`
	TargetID  string        `json:"targetId,omitempty"`
	Hint      game.Hint     `json:"hint"`
}

// Move converts the request into an engine move for playerID.
func (d MoveData) Move(playerID string) game.Move {
	return game.Move{
		Type:      d.Type,
		PlayerID:  playerID,
		CardIndex: d.CardIndex,
		TargetID:  d.TargetID,
		Hint:      d.Hint,
	}
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"isBot,omitempty"`
}

type RoomInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
	Seats   int    `json:"seats"`
	Bots    int    `json:"bots"`
	Status  string `json:"status"`
}

type RoomListData struct {
	Rooms []RoomInfo `json:"rooms"`
}

// JoinedData is sent to everyone in a room when its membership changes.
type JoinedData struct {
	RoomID   string       `json:"roomId"`
	RoomName string       `json:"roomName"`
	PlayerID string       `json:"playerId"`
	Players  []PlayerInfo `json:"players"`
}

type LeftData struct {
	RoomID string `json:"roomId"`
}

// StateData carries the recipient's own view of the game: their hand is
// masked, every other hand is visible.
type StateData struct {
	RoomID   string        `json:"roomId"`
	PlayerID string        `json:"playerId"`
	Seat     int           `json:"seat"`
	Score    int           `json:"score"`
	State    game.Snapshot `json:"state"`
}
