package arena

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/models"
)

// waitPerMissingPlayer is the linear factor behind the estimated wait
// reported on enqueue.
const waitPerMissingPlayer = 10 * time.Second

// matchSink receives the players removed from a queue when a match is ready.
type matchSink interface {
	CreateMatched(players []*models.Player, mode models.GameMode)
}

// QueueManager holds one FIFO queue per game mode. Match-readiness is
// evaluated synchronously inside the same locked step that admits a player,
// so no two evaluation passes can split one player into two matches.
type QueueManager struct {
	mu     sync.Mutex
	queues map[models.GameMode][]*models.Player
	sink   matchSink
}

// NewQueueManager builds a QueueManager feeding matches into sink.
func NewQueueManager(sink matchSink) *QueueManager {
	return &QueueManager{
		queues: make(map[models.GameMode][]*models.Player),
		sink:   sink,
	}
}

// Enqueue appends the player to the mode's queue and reports their position
// and estimated wait. If the queue now holds at least the mode's capacity,
// exactly capacity players are removed in FIFO order and handed off as a
// match before Enqueue returns.
func (q *QueueManager) Enqueue(player *models.Player, mode models.GameMode) (position int, wait time.Duration) {
	q.mu.Lock()

	queue := q.queues[mode]
	for i, p := range queue {
		if p.ConnID == player.ConnID {
			// Already waiting; report the current position instead of
			// queueing twice.
			q.mu.Unlock()
			return i + 1, q.estimateWait(mode, i+1)
		}
	}

	queue = append(queue, player)
	q.queues[mode] = queue
	position = len(queue)
	wait = q.estimateWait(mode, position)

	log.Debug().
		Str("conn_id", player.ConnID.String()).
		Str("username", player.Username).
		Str("mode", string(mode)).
		Int("position", position).
		Msg("player enqueued")

	var matched []*models.Player
	if capacity := mode.Capacity(); len(queue) >= capacity {
		matched = append(matched, queue[:capacity]...)
		q.queues[mode] = append([]*models.Player{}, queue[capacity:]...)
		// A player matched here cannot stay queued for another mode.
		for _, m := range matched {
			q.removeLocked(m.ConnID)
		}
	}
	q.mu.Unlock()

	if matched != nil {
		q.sink.CreateMatched(matched, mode)
	}
	return position, wait
}

// Dequeue removes the player from the mode's queue if present; no-op
// otherwise. Reports whether a removal happened.
func (q *QueueManager) Dequeue(connID uuid.UUID, mode models.GameMode) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.queues[mode]
	for i, p := range queue {
		if p.ConnID == connID {
			q.queues[mode] = append(queue[:i:i], queue[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveEverywhere purges a connection from every queue (disconnect path).
func (q *QueueManager) RemoveEverywhere(connID uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(connID)
}

func (q *QueueManager) removeLocked(connID uuid.UUID) {
	for mode, queue := range q.queues {
		for i, p := range queue {
			if p.ConnID == connID {
				q.queues[mode] = append(queue[:i:i], queue[i+1:]...)
				break
			}
		}
	}
}

// Lengths snapshots the current queue sizes per mode.
func (q *QueueManager) Lengths() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make(map[string]int, len(q.queues))
	for mode, queue := range q.queues {
		out[string(mode)] = len(queue)
	}
	return out
}

// estimateWait is linear in the players still needed to fill a match.
// Callers hold q.mu or tolerate a slightly stale estimate.
func (q *QueueManager) estimateWait(mode models.GameMode, position int) time.Duration {
	missing := mode.Capacity() - position
	if missing < 0 {
		missing = 0
	}
	return time.Duration(missing) * waitPerMissingPlayer
}
