package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/hanabi/internal/game"
)

// Connection represents a WebSocket connection to a client. Each connection
// is one player; its id is assigned on connect and used as the actor of
// every move it sends.
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	playerID    string
	name        string
	roomID      string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	gameService *GameService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, gameService *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	playerID := uuid.NewString()

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		playerID:    playerID,
		logger:      logger.WithPrefix("conn").With("player", playerID),
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// GetPlayer returns the player id of this connection
func (c *Connection) GetPlayer() string {
	return c.playerID
}

// GetName returns the display name given on join
func (c *Connection) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
	c.name = name
}

// GetRoom returns the associated room id
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				c.sendError("invalid_message", "Malformed JSON")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join data")
			return
		}
		c.handleJoin(data)

	case MessageTypeLeave:
		c.handleLeave()

	case MessageTypeStart:
		var data StartData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError("invalid_message", "Failed to parse start data")
				return
			}
		}
		c.handleStart(data)

	case MessageTypeMove:
		var data MoveData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse move data")
			return
		}
		c.handleMove(data)

	case MessageTypeListRooms:
		c.handleListRooms()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleJoin(data JoinData) {
	c.logger.Info("Join request", "room", data.Room, "name", data.Name)

	if c.GetRoom() != "" {
		c.sendError("join_failed", ErrAlreadyInRoom.Error())
		return
	}
	if data.Room == "" {
		data.Room = uuid.NewString()
	}

	room, err := c.gameService.JoinRoom(data.Room, PlayerInfo{ID: c.playerID, Name: data.Name})
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	// The joined broadcast from the service tells this client it is in.
	c.SetRoom(room.ID, data.Name)
}

func (c *Connection) handleLeave() {
	roomID := c.GetRoom()
	if roomID == "" {
		c.sendError("leave_failed", ErrNotInRoom.Error())
		return
	}

	if err := c.gameService.LeaveRoom(roomID, c.playerID); err != nil {
		c.sendError("leave_failed", err.Error())
		return
	}
	c.SetRoom("", "")

	response, _ := NewMessage(MessageTypeLeft, LeftData{RoomID: roomID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleStart(data StartData) {
	roomID := c.GetRoom()
	if roomID == "" {
		c.sendError("start_failed", ErrNotInRoom.Error())
		return
	}

	if err := c.gameService.StartGame(roomID, c.playerID, data.Bots); err != nil {
		c.sendError("start_failed", err.Error())
	}
}

func (c *Connection) handleMove(data MoveData) {
	roomID := c.GetRoom()
	if roomID == "" {
		c.sendError("move_failed", ErrNotInRoom.Error())
		return
	}

	c.logger.Debug("Move", "type", data.Type, "card", data.CardIndex, "target", data.TargetID)

	// State updates reach the client through the engine's change notifications.
	if err := c.gameService.PerformMove(roomID, c.playerID, data); err != nil {
		c.sendError(moveErrorCode(err), err.Error())
	}
}

// moveErrorCode maps engine errors onto stable codes for clients.
func moveErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrOutOfTurn):
		return "out_of_turn"
	case errors.Is(err, game.ErrInvalidIndex):
		return "invalid_index"
	case errors.Is(err, game.ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, game.ErrInvalidHint):
		return "invalid_hint"
	case errors.Is(err, game.ErrNoHintTokens):
		return "no_hint_tokens"
	case errors.Is(err, ErrNotStarted):
		return "not_started"
	default:
		return "move_failed"
	}
}

func (c *Connection) handleListRooms() {
	response, _ := NewMessage(MessageTypeRoomList, RoomListData{
		Rooms: c.gameService.ListRooms(),
	})
	_ = c.SendMessage(response)
}
