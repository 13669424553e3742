package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/hanabi/internal/bot"
	"github.com/lox/hanabi/internal/game"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomStarted   = errors.New("game already started")
	ErrNotStarted    = errors.New("game has not started")
	ErrNotInRoom     = errors.New("player not in room")
	ErrAlreadyInRoom = errors.New("player already in a room")
	ErrNameRequired  = errors.New("player name required")
	ErrRoomExists    = errors.New("room already exists")
)

// Sender delivers a message to one connected player
type Sender interface {
	SendToPlayer(playerID string, msg *Message) error
}

// Room is a group of players sharing one game
type Room struct {
	ID    string
	Name  string
	Seats int
	Bots  int

	configured bool
	logger     *log.Logger

	mu          sync.RWMutex
	members     []PlayerInfo
	seats       map[string]int // player id -> seat, set when the game starts
	engine      *game.Engine
	unsubscribe func()
}

// Info summarises the room for listings
func (r *Room) Info() RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := "waiting"
	bots := r.Bots
	if r.engine != nil {
		status = r.engine.Phase().String()
		bots = len(r.seats) - len(r.members)
	}
	return RoomInfo{
		ID:      r.ID,
		Name:    r.Name,
		Players: len(r.members),
		Seats:   r.Seats,
		Bots:    bots,
		Status:  status,
	}
}

// Members returns the people seated in the room in join order
func (r *Room) Members() []PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.members)
}

// Engine returns the room's game, or nil before it starts
func (r *Room) Engine() *game.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine
}

func (r *Room) hasMember(playerID string) bool {
	return slices.ContainsFunc(r.members, func(p PlayerInfo) bool { return p.ID == playerID })
}

// GameService manages rooms and routes moves into their engines
type GameService struct {
	rooms    map[string]*Room // roomID -> Room
	sender   Sender
	agent    game.Agent
	clock    quartz.Clock
	botDelay time.Duration
	seed     int64
	logger   *log.Logger
	mu       sync.RWMutex
}

// ServiceOption configures a GameService
type ServiceOption func(*GameService)

// WithClock sets the clock used for automated turns
func WithClock(clock quartz.Clock) ServiceOption {
	return func(gs *GameService) { gs.clock = clock }
}

// WithBotDelay sets the pause before automated moves
func WithBotDelay(d time.Duration) ServiceOption {
	return func(gs *GameService) { gs.botDelay = d }
}

// WithSeed makes every room's shuffles deterministic
func WithSeed(seed int64) ServiceOption {
	return func(gs *GameService) { gs.seed = seed }
}

// NewGameService creates a new game service
func NewGameService(sender Sender, logger *log.Logger, opts ...ServiceOption) *GameService {
	gs := &GameService{
		rooms:    make(map[string]*Room),
		sender:   sender,
		clock:    quartz.NewReal(),
		botDelay: game.DefaultBotDelay,
		logger:   logger.WithPrefix("game-service"),
	}
	for _, opt := range opts {
		opt(gs)
	}
	gs.agent = bot.NewBot(logger)
	return gs
}

// CreateRoom creates a room. An empty name uses the room id.
func (gs *GameService) CreateRoom(cfg RoomConfig) (*Room, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.createRoomLocked(cfg, true)
}

func (gs *GameService) createRoomLocked(cfg RoomConfig, configured bool) (*Room, error) {
	if cfg.Players == 0 {
		cfg.Players = defaultSeats
	}
	if cfg.Players < game.MinPlayers || cfg.Players > game.MaxPlayers {
		return nil, fmt.Errorf("seats must be between %d and %d", game.MinPlayers, game.MaxPlayers)
	}

	id := uuid.NewString()
	if cfg.Name == "" {
		cfg.Name = id
	}
	if gs.findRoomLocked(cfg.Name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomExists, cfg.Name)
	}

	room := &Room{
		ID:         id,
		Name:       cfg.Name,
		Seats:      cfg.Players,
		Bots:       cfg.Bots,
		configured: configured,
		logger:     gs.logger.WithPrefix("room").With("room", cfg.Name),
	}
	gs.rooms[id] = room
	gs.logger.Info("Created new room", "id", id, "name", cfg.Name, "seats", cfg.Players, "bots", cfg.Bots)

	return room, nil
}

// GetRoom returns a room by id or name
func (gs *GameService) GetRoom(key string) *Room {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.findRoomLocked(key)
}

func (gs *GameService) findRoomLocked(key string) *Room {
	if room, ok := gs.rooms[key]; ok {
		return room
	}
	for _, room := range gs.rooms {
		if room.Name == key {
			return room
		}
	}
	return nil
}

// ListRooms returns all rooms sorted by name
func (gs *GameService) ListRooms() []RoomInfo {
	gs.mu.RLock()
	rooms := make([]*Room, 0, len(gs.rooms))
	for _, room := range gs.rooms {
		rooms = append(rooms, room)
	}
	gs.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, room.Info())
	}
	slices.SortFunc(infos, func(a, b RoomInfo) int { return strings.Compare(a.Name, b.Name) })
	return infos
}

// JoinRoom seats a player in the room named by key, creating it if no room
// has that id or name.
func (gs *GameService) JoinRoom(key string, player PlayerInfo) (*Room, error) {
	if strings.TrimSpace(player.Name) == "" {
		return nil, ErrNameRequired
	}

	gs.mu.Lock()
	room := gs.findRoomLocked(key)
	if room == nil {
		var err error
		room, err = gs.createRoomLocked(RoomConfig{Name: key, Players: defaultSeats, Bots: defaultBots}, false)
		if err != nil {
			gs.mu.Unlock()
			return nil, err
		}
	}
	gs.mu.Unlock()

	room.mu.Lock()
	switch {
	case room.engine != nil:
		room.mu.Unlock()
		return nil, ErrRoomStarted
	case room.hasMember(player.ID):
		room.mu.Unlock()
		return nil, ErrAlreadyInRoom
	case len(room.members) >= room.Seats:
		room.mu.Unlock()
		return nil, ErrRoomFull
	}
	room.members = append(room.members, player)
	count := len(room.members)
	room.mu.Unlock()

	room.logger.Info("Player joined room", "player", player.Name, "id", player.ID, "players", count)
	gs.broadcastMembers(room, player.ID)

	return room, nil
}

// LeaveRoom removes a player. Once a game is running the seat is kept so the
// turn order stays intact. Rooms created by joining are dropped when empty.
func (gs *GameService) LeaveRoom(roomID, playerID string) error {
	room := gs.GetRoom(roomID)
	if room == nil {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	room.mu.Lock()
	if !room.hasMember(playerID) {
		room.mu.Unlock()
		return ErrNotInRoom
	}
	if room.engine != nil {
		room.mu.Unlock()
		room.logger.Info("Player left running game, seat kept", "id", playerID)
		return nil
	}
	room.members = slices.DeleteFunc(room.members, func(p PlayerInfo) bool { return p.ID == playerID })
	empty := len(room.members) == 0
	room.mu.Unlock()

	room.logger.Info("Player left room", "id", playerID)

	if empty && !room.configured {
		gs.removeRoom(room)
		return nil
	}
	gs.broadcastMembers(room, playerID)
	return nil
}

func (gs *GameService) removeRoom(room *Room) {
	gs.mu.Lock()
	delete(gs.rooms, room.ID)
	gs.mu.Unlock()

	room.mu.Lock()
	if room.unsubscribe != nil {
		room.unsubscribe()
	}
	room.mu.Unlock()

	gs.logger.Info("Removed empty room", "id", room.ID, "name", room.Name)
}

// StartGame deals a new game for everyone in the room plus bots. A positive
// bots argument overrides the room's configured count.
func (gs *GameService) StartGame(roomID, playerID string, bots int) error {
	room := gs.GetRoom(roomID)
	if room == nil {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	room.mu.Lock()
	if !room.hasMember(playerID) {
		room.mu.Unlock()
		return ErrNotInRoom
	}
	if room.engine != nil {
		room.mu.Unlock()
		return ErrRoomStarted
	}
	if bots <= 0 {
		bots = room.Bots
	}
	if total := len(room.members) + bots; total < game.MinPlayers || total > room.Seats {
		room.mu.Unlock()
		return fmt.Errorf("%w: %d players and %d bots for %d seats", game.ErrInvalidRoster, len(room.members), bots, room.Seats)
	}

	roster := make([]*game.Player, 0, len(room.members)+bots)
	for _, m := range room.members {
		roster = append(roster, game.NewPlayer(m.ID, m.Name))
	}
	for i := range bots {
		roster = append(roster, game.NewBot(fmt.Sprintf("bot-%d", i+1), fmt.Sprintf("Bot %d", i+1)))
	}

	room.seats = make(map[string]int, len(roster))
	for i, p := range roster {
		room.seats[p.ID] = i
	}

	opts := []game.Option{game.WithClock(gs.clock), game.WithBotDelay(gs.botDelay)}
	if gs.seed != 0 {
		opts = append(opts, game.WithSeed(gs.seed))
	}
	engine := game.NewEngine(gs.agent, room.logger, opts...)
	room.engine = engine
	room.unsubscribe = engine.OnChange(func() { gs.broadcastState(room) })
	room.mu.Unlock()

	room.logger.Info("Starting game", "players", len(roster), "bots", bots)
	return engine.Setup(roster)
}

// PerformMove applies a move made by playerID in the given room
func (gs *GameService) PerformMove(roomID, playerID string, data MoveData) error {
	room := gs.GetRoom(roomID)
	if room == nil {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	engine := room.Engine()
	if engine == nil {
		return ErrNotStarted
	}
	return engine.PerformMove(data.Move(playerID))
}

// broadcastState sends each member their own masked view.
func (gs *GameService) broadcastState(room *Room) {
	room.mu.RLock()
	members := slices.Clone(room.members)
	seats := room.seats
	engine := room.engine
	room.mu.RUnlock()

	if engine == nil {
		return
	}

	for _, m := range members {
		seat, ok := seats[m.ID]
		if !ok {
			continue
		}
		view := engine.VisibleState(seat)
		msg, err := NewMessage(MessageTypeState, StateData{
			RoomID:   room.ID,
			PlayerID: m.ID,
			Seat:     seat,
			Score:    view.Score(),
			State:    view,
		})
		if err != nil {
			room.logger.Error("Failed to create state message", "error", err)
			continue
		}
		gs.send(m.ID, msg)
	}
}

func (gs *GameService) broadcastMembers(room *Room, changedID string) {
	members := room.Members()
	msg, err := NewMessage(MessageTypeJoined, JoinedData{
		RoomID:   room.ID,
		RoomName: room.Name,
		PlayerID: changedID,
		Players:  members,
	})
	if err != nil {
		room.logger.Error("Failed to create joined message", "error", err)
		return
	}
	for _, m := range members {
		gs.send(m.ID, msg)
	}
}

func (gs *GameService) send(playerID string, msg *Message) {
	if gs.sender == nil {
		return
	}
	if err := gs.sender.SendToPlayer(playerID, msg); err != nil {
		gs.logger.Debug("Failed to send message", "player", playerID, "type", msg.Type, "error", err)
	}
}
