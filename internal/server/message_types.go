package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeJoin      MessageType = "join"
	MessageTypeLeave     MessageType = "leave"
	MessageTypeStart     MessageType = "start"
	MessageTypeMove      MessageType = "move"
	MessageTypeListRooms MessageType = "list_rooms"

	// Server to client messages
	MessageTypeJoined   MessageType = "joined"
	MessageTypeLeft     MessageType = "left"
	MessageTypeState    MessageType = "state"
	MessageTypeError    MessageType = "error"
	MessageTypeRoomList MessageType = "room_list"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
