package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/hanabi/internal/deck"
	"github.com/lox/hanabi/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*GameService, *recordingSender, *quartz.Mock) {
	t.Helper()
	sender := newRecordingSender()
	clock := quartz.NewMock(t)
	gs := NewGameService(sender, testLogger(), WithClock(clock), WithSeed(42))
	return gs, sender, clock
}

func TestCreateRoom(t *testing.T) {
	gs, _, _ := newTestService(t)

	room, err := gs.CreateRoom(RoomConfig{Name: "duo", Players: 2, Bots: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Same(t, room, gs.GetRoom("duo"))
	assert.Same(t, room, gs.GetRoom(room.ID))

	_, err = gs.CreateRoom(RoomConfig{Name: "duo"})
	assert.ErrorIs(t, err, ErrRoomExists)

	_, err = gs.CreateRoom(RoomConfig{Name: "big", Players: 6})
	assert.Error(t, err)

	unnamed, err := gs.CreateRoom(RoomConfig{})
	require.NoError(t, err)
	assert.Equal(t, unnamed.ID, unnamed.Name)
	assert.Equal(t, game.MaxPlayers, unnamed.Seats)
}

func TestJoinRoom(t *testing.T) {
	gs, sender, _ := newTestService(t)

	room, err := gs.JoinRoom("fresh", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", room.Name)

	var joined JoinedData
	require.True(t, sender.last("p1", MessageTypeJoined, &joined))
	assert.Equal(t, room.ID, joined.RoomID)
	assert.Equal(t, "p1", joined.PlayerID)
	assert.Equal(t, []PlayerInfo{{ID: "p1", Name: "Ann"}}, joined.Players)

	_, err = gs.JoinRoom("fresh", PlayerInfo{ID: "p2", Name: "Bob"})
	require.NoError(t, err)

	// Existing members hear about newcomers.
	require.True(t, sender.last("p1", MessageTypeJoined, &joined))
	assert.Equal(t, "p2", joined.PlayerID)
	assert.Len(t, joined.Players, 2)

	_, err = gs.JoinRoom("fresh", PlayerInfo{ID: "p2", Name: "Bob"})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)

	_, err = gs.JoinRoom("fresh", PlayerInfo{ID: "p3", Name: "  "})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestJoinRoomFull(t *testing.T) {
	gs, _, _ := newTestService(t)
	_, err := gs.CreateRoom(RoomConfig{Name: "duo", Players: 2})
	require.NoError(t, err)

	_, err = gs.JoinRoom("duo", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)
	_, err = gs.JoinRoom("duo", PlayerInfo{ID: "p2", Name: "Bob"})
	require.NoError(t, err)
	_, err = gs.JoinRoom("duo", PlayerInfo{ID: "p3", Name: "Cat"})
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestStartGameSendsMaskedViews(t *testing.T) {
	gs, sender, _ := newTestService(t)
	room, err := gs.JoinRoom("table", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)
	_, err = gs.JoinRoom("table", PlayerInfo{ID: "p2", Name: "Bob"})
	require.NoError(t, err)

	require.NoError(t, gs.StartGame(room.ID, "p1", 0))
	assert.ErrorIs(t, gs.StartGame(room.ID, "p1", 0), ErrRoomStarted)

	var state StateData
	require.True(t, sender.last("p1", MessageTypeState, &state))
	assert.Equal(t, 0, state.Seat)
	require.Len(t, state.State.Players, 3, "two people and the room's default bot")
	for _, c := range state.State.Players[0].Hand {
		assert.True(t, c.IsMasked())
		assert.Regexp(t, `^card_\d{2}$`, c.ID)
	}
	for _, c := range state.State.Players[1].Hand {
		assert.False(t, c.IsMasked())
	}
	assert.True(t, state.State.Players[2].IsBot)

	require.True(t, sender.last("p2", MessageTypeState, &state))
	assert.Equal(t, 1, state.Seat)
	assert.True(t, state.State.Players[1].Hand[0].IsMasked())
	assert.False(t, state.State.Players[0].Hand[0].IsMasked())

	_, err = gs.JoinRoom("table", PlayerInfo{ID: "p3", Name: "Cat"})
	assert.ErrorIs(t, err, ErrRoomStarted)

	assert.Equal(t, "in progress", room.Info().Status)
	assert.Equal(t, 1, room.Info().Bots)
}

func TestStartGameValidatesRoster(t *testing.T) {
	gs, _, _ := newTestService(t)
	room, err := gs.CreateRoom(RoomConfig{Name: "solo", Players: 2})
	require.NoError(t, err)
	_, err = gs.JoinRoom("solo", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)

	assert.ErrorIs(t, gs.StartGame(room.ID, "p1", 0), game.ErrInvalidRoster, "one person and no bots")
	assert.ErrorIs(t, gs.StartGame(room.ID, "p1", 2), game.ErrInvalidRoster, "more bots than seats")
	assert.ErrorIs(t, gs.StartGame(room.ID, "ghost", 1), ErrNotInRoom)
	assert.ErrorIs(t, gs.StartGame("nowhere", "p1", 1), ErrRoomNotFound)
	require.NoError(t, gs.StartGame(room.ID, "p1", 1))
}

func TestPerformMoveAndBotReply(t *testing.T) {
	gs, sender, clock := newTestService(t)
	room, err := gs.CreateRoom(RoomConfig{Name: "duo", Players: 2, Bots: 1})
	require.NoError(t, err)
	_, err = gs.JoinRoom("duo", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)

	assert.ErrorIs(t, gs.PerformMove(room.ID, "p1", MoveData{Type: game.MoveDiscard}), ErrNotStarted)

	require.NoError(t, gs.StartGame(room.ID, "p1", 0))
	states := sender.count("p1", MessageTypeState)

	require.NoError(t, gs.PerformMove(room.ID, "p1", MoveData{Type: game.MoveHint, TargetID: "bot-1", Hint: game.ColorHint(deck.Red)}))
	assert.Equal(t, states+1, sender.count("p1", MessageTypeState))

	// Moving again before the bot has played is out of turn.
	assert.ErrorIs(t, gs.PerformMove(room.ID, "p1", MoveData{Type: game.MoveDiscard}), game.ErrOutOfTurn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(game.DefaultBotDelay).MustWait(ctx)

	var state StateData
	require.True(t, sender.last("p1", MessageTypeState, &state))
	assert.Equal(t, 3, state.State.Turn)
	assert.Equal(t, 0, state.State.CurrentPlayerIndex)
	last := state.State.LogLines[len(state.State.LogLines)-1]
	assert.True(t, strings.HasPrefix(last, "[Turn 2] Bot 1 "), last)
}

func TestLeaveRoom(t *testing.T) {
	gs, sender, _ := newTestService(t)
	room, err := gs.JoinRoom("temp", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)
	_, err = gs.JoinRoom("temp", PlayerInfo{ID: "p2", Name: "Bob"})
	require.NoError(t, err)

	require.NoError(t, gs.LeaveRoom(room.ID, "p2"))
	var joined JoinedData
	require.True(t, sender.last("p1", MessageTypeJoined, &joined))
	assert.Equal(t, []PlayerInfo{{ID: "p1", Name: "Ann"}}, joined.Players)

	assert.ErrorIs(t, gs.LeaveRoom(room.ID, "p2"), ErrNotInRoom)

	// The last person out removes a room that was created by joining.
	require.NoError(t, gs.LeaveRoom(room.ID, "p1"))
	assert.Nil(t, gs.GetRoom("temp"))
}

func TestLeaveConfiguredRoomKeepsIt(t *testing.T) {
	gs, _, _ := newTestService(t)
	room, err := gs.CreateRoom(RoomConfig{Name: "lobby"})
	require.NoError(t, err)
	_, err = gs.JoinRoom("lobby", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)

	require.NoError(t, gs.LeaveRoom(room.ID, "p1"))
	assert.NotNil(t, gs.GetRoom("lobby"))
	assert.Empty(t, room.Members())
}

func TestLeaveRunningGameKeepsSeat(t *testing.T) {
	gs, _, _ := newTestService(t)
	room, err := gs.JoinRoom("table", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)
	require.NoError(t, gs.StartGame(room.ID, "p1", 1))

	require.NoError(t, gs.LeaveRoom(room.ID, "p1"))
	assert.Len(t, room.Members(), 1)
	assert.NotNil(t, room.Engine())
}

func TestListRooms(t *testing.T) {
	gs, _, _ := newTestService(t)
	_, err := gs.CreateRoom(RoomConfig{Name: "zeta", Players: 3, Bots: 2})
	require.NoError(t, err)
	_, err = gs.JoinRoom("alpha", PlayerInfo{ID: "p1", Name: "Ann"})
	require.NoError(t, err)

	rooms := gs.ListRooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "alpha", rooms[0].Name)
	assert.Equal(t, 1, rooms[0].Players)
	assert.Equal(t, "waiting", rooms[0].Status)
	assert.Equal(t, "zeta", rooms[1].Name)
	assert.Equal(t, 3, rooms[1].Seats)
	assert.Equal(t, 2, rooms[1].Bots)
}
