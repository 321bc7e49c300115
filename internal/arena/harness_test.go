package arena

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/triviarena/triviarena/internal/events"
	"github.com/triviarena/triviarena/internal/ledger"
	"github.com/triviarena/triviarena/internal/models"
	"github.com/triviarena/triviarena/internal/questions"
)

const waitTimeout = 2 * time.Second

// recordingNotifier captures every event per connection so tests can assert
// on delivery order and counts.
type recordingNotifier struct {
	mu     sync.Mutex
	events map[uuid.UUID][]events.Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[uuid.UUID][]events.Event)}
}

func (n *recordingNotifier) Send(connID uuid.UUID, ev events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[connID] = append(n.events[connID], ev)
}

func (n *recordingNotifier) count(connID uuid.UUID, t events.EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, ev := range n.events[connID] {
		if ev.Type == t {
			count++
		}
	}
	return count
}

func (n *recordingNotifier) last(connID uuid.UUID, t events.EventType) (events.Event, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.events[connID]) - 1; i >= 0; i-- {
		if n.events[connID][i].Type == t {
			return n.events[connID][i], true
		}
	}
	return events.Event{}, false
}

// waitFor polls until the connection has received at least one event of the
// given type and returns the most recent one.
func (n *recordingNotifier) waitFor(t *testing.T, connID uuid.UUID, eventType events.EventType) events.Event {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if ev, ok := n.last(connID, eventType); ok {
			return ev
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s on %s", eventType, connID)
	return events.Event{}
}

// waitForCount polls until the connection has received at least n events of
// the given type and returns the most recent one.
func (n *recordingNotifier) waitForCount(t *testing.T, connID uuid.UUID, eventType events.EventType, want int) events.Event {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if n.count(connID, eventType) >= want {
			ev, _ := n.last(connID, eventType)
			return ev
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d %s events on %s, got %d",
		want, eventType, connID, n.count(connID, eventType))
	return events.Event{}
}

func decodePayload(t *testing.T, ev events.Event, into any) {
	t.Helper()
	if err := json.Unmarshal(ev.Data, into); err != nil {
		t.Fatalf("decoding %s payload: %v", ev.Type, err)
	}
}

// captureSink records published session results.
type captureSink struct {
	mu      sync.Mutex
	results []models.SessionResult
}

func (s *captureSink) Publish(_ context.Context, result models.SessionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *captureSink) wait(t *testing.T) models.SessionResult {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		if len(s.results) > 0 {
			r := s.results[len(s.results)-1]
			s.mu.Unlock()
			return r
		}
		s.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for a published result")
	return models.SessionResult{}
}

type testRig struct {
	app      *App
	notifier *recordingNotifier
	sink     *captureSink
	clock    *clockwork.FakeClock
	plays    *ledger.MemoryLedger
}

func newTestRig(t *testing.T, cfg Config) *testRig {
	t.Helper()
	clock := clockwork.NewFakeClock()
	notifier := newRecordingNotifier()
	sink := &captureSink{}
	plays := ledger.NewMemoryLedger(clock)
	source := questions.NewSource(nil, time.Second)
	app := NewApp(clock, notifier, source, sink, plays, cfg)
	return &testRig{app: app, notifier: notifier, sink: sink, clock: clock, plays: plays}
}

func defaultTestConfig() Config {
	return Config{
		RoundDuration:   30 * time.Second,
		StartDelay:      3 * time.Second,
		EndedGrace:      time.Minute,
		FreeGamesPerDay: 5,
	}
}

func makePlayer(username string) *models.Player {
	return &models.Player{
		ConnID:   uuid.New(),
		Username: username,
		Rank:     100,
	}
}

// startDuel queues two players through matchmaking and advances the clock
// past the start delay, returning the room id once both are in play.
func startDuel(t *testing.T, rig *testRig, p1, p2 *models.Player) string {
	t.Helper()
	if err := rig.app.JoinQueue(p1, "1v1"); err != nil {
		t.Fatalf("p1 join queue: %v", err)
	}
	if err := rig.app.JoinQueue(p2, "1v1"); err != nil {
		t.Fatalf("p2 join queue: %v", err)
	}
	rig.notifier.waitFor(t, p1.ConnID, events.EventTypeMatchFound)
	rig.notifier.waitFor(t, p2.ConnID, events.EventTypeMatchFound)

	rig.clock.BlockUntil(1)
	rig.clock.Advance(defaultTestConfig().StartDelay)

	var started events.GameStartedPayload
	decodePayload(t, rig.notifier.waitFor(t, p1.ConnID, events.EventTypeGameStarted), &started)
	rig.notifier.waitFor(t, p2.ConnID, events.EventTypeGameStarted)
	return started.RoomID
}
