package arena

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triviarena/triviarena/internal/events"
	"github.com/triviarena/triviarena/internal/models"
)

func createRoom(t *testing.T, rig *testRig, host *models.Player, mode string) events.PrivateRoomCreatedPayload {
	t.Helper()
	require.NoError(t, rig.app.CreatePrivateRoom(host, mode))
	var created events.PrivateRoomCreatedPayload
	decodePayload(t, rig.notifier.waitFor(t, host.ConnID, events.EventTypePrivateRoomCreated), &created)
	return created
}

func TestCreatePrivateRoom(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())
	host := makePlayer("host")

	created := createRoom(t, rig, host, "2v2")

	assert.Len(t, created.RoomCode, 6)
	assert.Equal(t, strings.ToUpper(created.RoomCode), created.RoomCode)
	assert.Equal(t, "2v2", created.Mode)
	assert.Equal(t, 4, created.Capacity)
	assert.Equal(t, 1, rig.app.ActiveSessions())
}

func TestJoinPrivateRoomStartsWhenFull(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())
	host := makePlayer("host")
	guest := makePlayer("guest")
	created := createRoom(t, rig, host, "1v1")

	// Codes are case-insensitive for the joiner.
	require.NoError(t, rig.app.JoinPrivateRoom(guest, strings.ToLower(created.RoomCode)))

	var joined events.JoinedPrivateRoomPayload
	decodePayload(t, rig.notifier.waitFor(t, guest.ConnID, events.EventTypeJoinedPrivateRoom), &joined)
	assert.Equal(t, created.RoomID, joined.RoomID)
	assert.Len(t, joined.Players, 2)

	var peer events.PlayerJoinedPayload
	decodePayload(t, rig.notifier.waitFor(t, host.ConnID, events.EventTypePlayerJoined), &peer)
	assert.Equal(t, "guest", peer.Player.Username)
	assert.Equal(t, 2, peer.PlayerCount)

	// The room filled, so the start delay is already running.
	rig.clock.BlockUntil(1)
	rig.clock.Advance(defaultTestConfig().StartDelay)
	rig.notifier.waitFor(t, host.ConnID, events.EventTypeGameStarted)
	rig.notifier.waitFor(t, guest.ConnID, events.EventTypeGameStarted)
}

func TestJoinPrivateRoomUnknownCode(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())

	err := rig.app.JoinPrivateRoom(makePlayer("guest"), "ZZZZZZ")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestJoinPrivateRoomAfterStartRefused(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())
	host := makePlayer("host")
	created := createRoom(t, rig, host, "1v1")
	require.NoError(t, rig.app.JoinPrivateRoom(makePlayer("guest"), created.RoomCode))
	rig.notifier.waitFor(t, host.ConnID, events.EventTypePlayerJoined)

	err := rig.app.JoinPrivateRoom(makePlayer("late"), created.RoomCode)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestWaitingRoomSurvivesHostLeaving(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())
	host := makePlayer("host")
	guest := makePlayer("guest")
	created := createRoom(t, rig, host, "2v2")
	require.NoError(t, rig.app.JoinPrivateRoom(guest, created.RoomCode))
	rig.notifier.waitFor(t, guest.ConnID, events.EventTypeJoinedPrivateRoom)

	rig.app.Disconnect(host.ConnID)

	var left events.PlayerLeftPayload
	decodePayload(t, rig.notifier.waitFor(t, guest.ConnID, events.EventTypePlayerLeft), &left)
	assert.Equal(t, "host", left.Username)
	assert.Equal(t, 1, left.PlayerCount)

	// The code still works for the remaining room.
	require.NoError(t, rig.app.JoinPrivateRoom(makePlayer("third"), created.RoomCode))
}

func TestEmptyWaitingRoomIsDestroyed(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())
	host := makePlayer("host")
	created := createRoom(t, rig, host, "2v2")

	rig.app.Disconnect(host.ConnID)

	waitUntil(t, func() bool { return rig.app.ActiveSessions() == 0 })

	// A released code no longer admits anyone.
	err := rig.app.JoinPrivateRoom(makePlayer("guest"), created.RoomCode)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestFreeGameLimit(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.FreeGamesPerDay = 1
	rig := newTestRig(t, cfg)

	startDuel(t, rig, makePlayer("alice"), makePlayer("bob"))

	// Same account on a fresh connection has used up its free game.
	again := makePlayer("alice")
	err := rig.app.JoinQueue(again, "1v1")
	var limitErr *LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 1, limitErr.Played)
	assert.Equal(t, 1, limitErr.Limit)

	require.ErrorAs(t, rig.app.CreatePrivateRoom(again, "1v1"), &limitErr)
}

func TestPremiumBypassesLimit(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.FreeGamesPerDay = 1
	rig := newTestRig(t, cfg)

	startDuel(t, rig, makePlayer("alice"), makePlayer("bob"))

	vip := makePlayer("alice")
	vip.Premium = true
	require.NoError(t, rig.app.JoinQueue(vip, "2v2"))
}

func TestPrivateRoomChargesHostOnly(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())
	host := makePlayer("host")
	guest := makePlayer("guest")
	created := createRoom(t, rig, host, "2v2")
	require.NoError(t, rig.app.JoinPrivateRoom(guest, created.RoomCode))
	rig.notifier.waitFor(t, guest.ConnID, events.EventTypeJoinedPrivateRoom)

	played, err := rig.plays.PlayedToday(context.Background(), "host")
	require.NoError(t, err)
	assert.Equal(t, 1, played)

	played, err = rig.plays.PlayedToday(context.Background(), "guest")
	require.NoError(t, err)
	assert.Equal(t, 0, played)
}

func TestMatchedPlayersAreCharged(t *testing.T) {
	rig := newTestRig(t, defaultTestConfig())
	alice := makePlayer("alice")
	bob := makePlayer("bob")
	bob.Premium = true

	startDuel(t, rig, alice, bob)

	played, err := rig.plays.PlayedToday(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, played)

	played, err = rig.plays.PlayedToday(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, played)
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}
