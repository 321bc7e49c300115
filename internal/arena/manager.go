package arena

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/models"
	"github.com/triviarena/triviarena/internal/questions"
	"github.com/triviarena/triviarena/internal/results"
)

// Manager owns the session store: creation of matched and private sessions,
// id and player lookups, and teardown bookkeeping. Session state itself lives
// inside each session's run loop; the manager only routes commands to it.
type Manager struct {
	clock    clockwork.Clock
	notifier Notifier
	source   *questions.Source
	sink     results.Sink
	invites  *InviteRegistry
	cfg      sessionConfig

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	byPlayer map[uuid.UUID]uuid.UUID
}

// NewManager builds an empty session store.
func NewManager(clock clockwork.Clock, notifier Notifier, source *questions.Source, sink results.Sink, cfg sessionConfig) *Manager {
	return &Manager{
		clock:    clock,
		notifier: notifier,
		source:   source,
		sink:     sink,
		invites:  NewInviteRegistry(),
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*Session),
		byPlayer: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *Manager) hooks() sessionHooks {
	return sessionHooks{
		bind:    m.bind,
		unbind:  m.unbind,
		destroy: m.remove,
	}
}

// CreateMatched forms a session from exactly capacity players handed over by
// the queue manager. The session starts in STARTING and begins play after the
// fixed start delay.
func (m *Manager) CreateMatched(players []*models.Player, mode models.GameMode) *Session {
	s := newSession(mode, false, m.clock, m.notifier, m.source, m.sink, m.hooks(), m.cfg)
	s.players = append(s.players, players...)

	m.mu.Lock()
	m.sessions[s.id] = s
	for _, p := range players {
		m.byPlayer[p.ConnID] = s.id
	}
	m.mu.Unlock()

	log.Info().
		Str("session_id", s.id.String()).
		Str("mode", string(mode)).
		Int("players", len(players)).
		Msg("matched session created")

	go s.run()
	s.post(launchCmd{})
	return s
}

// CreatePrivate opens a WAITING room for the host and mints its invite code.
func (m *Manager) CreatePrivate(host *models.Player, mode models.GameMode) *Session {
	s := newSession(mode, true, m.clock, m.notifier, m.source, m.sink, m.hooks(), m.cfg)
	s.players = append(s.players, host)
	s.code = m.invites.Mint(s.id)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.byPlayer[host.ConnID] = s.id
	m.mu.Unlock()

	log.Info().
		Str("session_id", s.id.String()).
		Str("room_code", s.code).
		Str("mode", string(mode)).
		Str("host", host.Username).
		Msg("private room created")

	go s.run()
	s.post(launchCmd{})
	return s
}

// JoinPrivate resolves an invite code and asks the session loop to admit the
// player. The join runs inside the loop, so capacity and status checks cannot
// race with other joins or the start transition.
func (m *Manager) JoinPrivate(code string, player *models.Player) error {
	id, ok := m.invites.Resolve(code)
	if !ok {
		return validationErrorf("unknown room code %q", code)
	}
	s, ok := m.Session(id)
	if !ok {
		// Registry and store can only disagree for the instant a session is
		// being torn down.
		return validationErrorf("unknown room code %q", code)
	}

	reply := make(chan error, 1)
	s.post(joinCmd{player: player, reply: reply})
	select {
	case err := <-reply:
		return err
	case <-s.done:
		return validationErrorf("room %q no longer exists", code)
	}
}

// Disconnect routes a connection loss into the player's session, if any.
func (m *Manager) Disconnect(connID uuid.UUID) {
	m.mu.RLock()
	id, ok := m.byPlayer[connID]
	s := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s == nil {
		return
	}
	s.post(leaveCmd{connID: connID})
}

// Session looks a session up by id.
func (m *Manager) Session(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// SessionFor looks a session up by one of its players.
func (m *Manager) SessionFor(connID uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byPlayer[connID]
	if !ok {
		return nil, false
	}
	s, ok := m.sessions[id]
	return s, ok
}

// ActiveSessions is the current store size, for operability endpoints.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) bind(connID, sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPlayer[connID] = sessionID
}

func (m *Manager) unbind(connID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byPlayer, connID)
}

// remove drops a destroyed session from the store and releases its invite
// code.
func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()
	if s.code != "" {
		m.invites.Release(s.code)
	}
}
