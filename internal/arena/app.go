package arena

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/events"
	"github.com/triviarena/triviarena/internal/ledger"
	"github.com/triviarena/triviarena/internal/models"
	"github.com/triviarena/triviarena/internal/questions"
	"github.com/triviarena/triviarena/internal/results"
)

// Config carries the gameplay knobs the engine needs.
type Config struct {
	RoundDuration   time.Duration
	StartDelay      time.Duration
	EndedGrace      time.Duration
	FreeGamesPerDay int
}

// App is the orchestration engine behind the gateway: queues, sessions,
// invite codes, scoring and the free-tier ledger, wired together.
type App struct {
	clock    clockwork.Clock
	notifier Notifier
	ledger   ledger.Ledger
	limit    int

	queues   *QueueManager
	sessions *Manager
}

// NewApp wires the engine. The notifier is the gateway's send side.
func NewApp(clock clockwork.Clock, notifier Notifier, source *questions.Source, sink results.Sink, plays ledger.Ledger, cfg Config) *App {
	a := &App{
		clock:    clock,
		notifier: notifier,
		ledger:   plays,
		limit:    cfg.FreeGamesPerDay,
	}
	a.sessions = NewManager(clock, notifier, source, sink, sessionConfig{
		roundDuration: cfg.RoundDuration,
		startDelay:    cfg.StartDelay,
		endedGrace:    cfg.EndedGrace,
	})
	a.queues = NewQueueManager(a)
	return a
}

// CreateMatched implements the queue manager's match sink: it charges the
// daily ledger and forms the session.
func (a *App) CreateMatched(players []*models.Player, mode models.GameMode) {
	for _, p := range players {
		if p.Premium {
			continue
		}
		if _, err := a.ledger.RecordPlay(context.Background(), p.Username); err != nil {
			log.Error().Err(err).Str("username", p.Username).Msg("failed to record play")
		}
	}
	a.sessions.CreateMatched(players, mode)
}

// JoinQueue admits a player to a mode's queue. On success a queueJoined event
// goes to the player; a full queue triggers match creation before this
// returns.
func (a *App) JoinQueue(player *models.Player, modeStr string) error {
	mode, err := models.ParseGameMode(modeStr)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if _, active := a.sessions.SessionFor(player.ConnID); active {
		return validationErrorf("player %s is already in an active session", player.Username)
	}
	if err := a.checkLimit(player); err != nil {
		return err
	}

	position, wait := a.queues.Enqueue(player, mode)
	a.notifier.Send(player.ConnID, events.New(events.EventTypeQueueJoined, events.QueueJoinedPayload{
		Mode:             string(mode),
		Position:         position,
		EstimatedWaitSec: int(wait.Seconds()),
	}))
	return nil
}

// LeaveQueue removes the player from a mode's queue; no-op if absent.
func (a *App) LeaveQueue(connID uuid.UUID, modeStr string) error {
	mode, err := models.ParseGameMode(modeStr)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if a.queues.Dequeue(connID, mode) {
		a.notifier.Send(connID, events.New(events.EventTypeQueueLeft, events.QueueLeftPayload{
			Mode: string(mode),
		}))
	}
	return nil
}

// QueueStatus reports current queue lengths to the requester.
func (a *App) QueueStatus(connID uuid.UUID) error {
	a.notifier.Send(connID, events.New(events.EventTypeQueueStatus, events.QueueStatusPayload{
		Queues: a.queues.Lengths(),
	}))
	return nil
}

// CreatePrivateRoom opens an invite-code room hosted by the player.
func (a *App) CreatePrivateRoom(host *models.Player, modeStr string) error {
	mode, err := models.ParseGameMode(modeStr)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if _, active := a.sessions.SessionFor(host.ConnID); active {
		return validationErrorf("player %s is already in an active session", host.Username)
	}
	if err := a.checkLimit(host); err != nil {
		return err
	}

	// Hosting a room supersedes any queue membership.
	a.queues.RemoveEverywhere(host.ConnID)

	if !host.Premium {
		if _, err := a.ledger.RecordPlay(context.Background(), host.Username); err != nil {
			log.Error().Err(err).Str("username", host.Username).Msg("failed to record play")
		}
	}
	a.sessions.CreatePrivate(host, mode)
	return nil
}

// JoinPrivateRoom admits the player to the room behind an invite code.
func (a *App) JoinPrivateRoom(player *models.Player, code string) error {
	if _, active := a.sessions.SessionFor(player.ConnID); active {
		return validationErrorf("player %s is already in an active session", player.Username)
	}
	err := a.sessions.JoinPrivate(code, player)
	if err == nil {
		a.queues.RemoveEverywhere(player.ConnID)
	}
	return err
}

// SubmitAnswer routes an answer into the player's session loop. Acceptance
// (status, duplicates, deadline) is decided inside the loop.
func (a *App) SubmitAnswer(connID uuid.UUID, roomID string, answerIndex int) error {
	s, err := a.sessionByID(roomID)
	if err != nil {
		return err
	}
	s.post(answerCmd{connID: connID, option: answerIndex})
	return nil
}

// RequestNextQuestion re-sends the current question to the requester.
func (a *App) RequestNextQuestion(connID uuid.UUID, roomID string) error {
	s, err := a.sessionByID(roomID)
	if err != nil {
		return err
	}
	s.post(resendCmd{connID: connID})
	return nil
}

// RequestRoomInfo sends a session snapshot to the requester.
func (a *App) RequestRoomInfo(connID uuid.UUID, roomID string) error {
	s, err := a.sessionByID(roomID)
	if err != nil {
		return err
	}
	s.post(infoCmd{connID: connID})
	return nil
}

// Disconnect applies the connection-loss policy: the player leaves every
// queue they occupied and their session, if any, handles the departure
// according to its status.
func (a *App) Disconnect(connID uuid.UUID) {
	a.queues.RemoveEverywhere(connID)
	a.sessions.Disconnect(connID)
}

// ActiveSessions exposes the store size for operability endpoints.
func (a *App) ActiveSessions() int {
	return a.sessions.ActiveSessions()
}

func (a *App) sessionByID(roomID string) (*Session, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, validationErrorf("invalid room id %q", roomID)
	}
	s, ok := a.sessions.Session(id)
	if !ok {
		return nil, validationErrorf("unknown room %q", roomID)
	}
	return s, nil
}

func (a *App) checkLimit(player *models.Player) error {
	if player.Premium || a.limit <= 0 {
		return nil
	}
	played, err := a.ledger.PlayedToday(context.Background(), player.Username)
	if err != nil {
		// Fail open: a ledger outage should not block gameplay.
		log.Error().Err(err).Str("username", player.Username).Msg("ledger lookup failed")
		return nil
	}
	if played >= a.limit {
		return &LimitExceededError{Played: played, Limit: a.limit}
	}
	return nil
}
