package arena

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triviarena/triviarena/internal/models"
)

type fakeMatchSink struct {
	mu      sync.Mutex
	matches [][]*models.Player
}

func (s *fakeMatchSink) CreateMatched(players []*models.Player, _ models.GameMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, players)
}

func (s *fakeMatchSink) all() [][]*models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}

func TestEnqueueReportsPositionAndWait(t *testing.T) {
	q := NewQueueManager(&fakeMatchSink{})

	pos, wait := q.Enqueue(makePlayer("p1"), models.ModeTeams)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 30*time.Second, wait)

	pos, wait = q.Enqueue(makePlayer("p2"), models.ModeTeams)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 20*time.Second, wait)
}

func TestEnqueueIsIdempotentPerConnection(t *testing.T) {
	q := NewQueueManager(&fakeMatchSink{})
	p := makePlayer("p1")

	q.Enqueue(p, models.ModeTeams)
	pos, _ := q.Enqueue(p, models.ModeTeams)

	assert.Equal(t, 1, pos)
	assert.Equal(t, 1, q.Lengths()["2v2"])
}

func TestMatchFormsInArrivalOrder(t *testing.T) {
	sink := &fakeMatchSink{}
	q := NewQueueManager(sink)
	names := []string{"p1", "p2", "p3", "p4", "p5"}
	for _, name := range names {
		q.Enqueue(makePlayer(name), models.ModeTeams)
	}

	matches := sink.all()
	require.Len(t, matches, 1)
	require.Len(t, matches[0], 4)
	for i, p := range matches[0] {
		assert.Equal(t, names[i], p.Username)
	}
	// The fifth player stays queued for the next match.
	assert.Equal(t, 1, q.Lengths()["2v2"])
}

func TestMatchedPlayerLeavesEveryQueue(t *testing.T) {
	sink := &fakeMatchSink{}
	q := NewQueueManager(sink)
	p := makePlayer("p1")

	q.Enqueue(p, models.ModeTeams)
	q.Enqueue(p, models.ModeDuel)
	q.Enqueue(makePlayer("p2"), models.ModeDuel)

	require.Len(t, sink.all(), 1)
	assert.Equal(t, 0, q.Lengths()["2v2"])
	assert.Equal(t, 0, q.Lengths()["1v1"])
}

func TestDequeue(t *testing.T) {
	q := NewQueueManager(&fakeMatchSink{})
	p := makePlayer("p1")
	q.Enqueue(p, models.ModeDuel)

	assert.True(t, q.Dequeue(p.ConnID, models.ModeDuel))
	assert.False(t, q.Dequeue(p.ConnID, models.ModeDuel))
	assert.Equal(t, 0, q.Lengths()["1v1"])
}

func TestRemoveEverywhere(t *testing.T) {
	q := NewQueueManager(&fakeMatchSink{})
	p := makePlayer("p1")
	q.Enqueue(p, models.ModeDuel)
	q.Enqueue(p, models.ModeTeams)

	q.RemoveEverywhere(p.ConnID)

	assert.Equal(t, 0, q.Lengths()["1v1"])
	assert.Equal(t, 0, q.Lengths()["2v2"])
}
