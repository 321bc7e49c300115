package arena

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/events"
	"github.com/triviarena/triviarena/internal/models"
	"github.com/triviarena/triviarena/internal/questions"
	"github.com/triviarena/triviarena/internal/results"
)

// sessionCmd is the typed command set consumed by a session's run loop. All
// session state is confined to that loop, so commands for the same session
// never interleave and intra-session ordering is explicit.
type sessionCmd interface {
	isSessionCmd()
}

type launchCmd struct{}

type joinCmd struct {
	player *models.Player
	reply  chan error
}

type leaveCmd struct {
	connID uuid.UUID
}

type answerCmd struct {
	connID uuid.UUID
	option int
}

type beginCmd struct{}

// roundTimeoutCmd carries the question index its deadline was armed for, so
// the loop can discard a stale fire for a round it has already left.
type roundTimeoutCmd struct {
	index int
}

type resendCmd struct {
	connID uuid.UUID
}

type infoCmd struct {
	connID uuid.UUID
}

type destroyCmd struct{}

func (launchCmd) isSessionCmd()       {}
func (joinCmd) isSessionCmd()         {}
func (leaveCmd) isSessionCmd()        {}
func (answerCmd) isSessionCmd()       {}
func (beginCmd) isSessionCmd()        {}
func (roundTimeoutCmd) isSessionCmd() {}
func (resendCmd) isSessionCmd()       {}
func (infoCmd) isSessionCmd()         {}
func (destroyCmd) isSessionCmd()      {}

type answerKey struct {
	questionIndex int
	connID        uuid.UUID
}

// sessionHooks let the session loop keep the manager's player/session
// bindings and invite registry consistent without reaching into its maps.
type sessionHooks struct {
	bind    func(connID, sessionID uuid.UUID)
	unbind  func(connID uuid.UUID)
	destroy func(s *Session)
}

type sessionConfig struct {
	roundDuration time.Duration
	startDelay    time.Duration
	endedGrace    time.Duration
}

// Session is one match instance, matched or private, with its own lifecycle.
// Everything below the cmds channel is owned exclusively by the run loop.
type Session struct {
	id      uuid.UUID
	mode    models.GameMode
	private bool
	code    string

	clock    clockwork.Clock
	notifier Notifier
	source   *questions.Source
	sink     results.Sink
	hooks    sessionHooks
	cfg      sessionConfig

	cmds chan sessionCmd
	done chan struct{}

	destroyed  bool
	status     models.SessionStatus
	players    []*models.Player
	gone       map[uuid.UUID]bool
	departed   []*models.Player
	teams      map[uuid.UUID]models.TeamKey
	questions  []models.Question
	idx        int
	scores     map[string]int
	answers    map[answerKey]*models.AnswerRecord
	startedAt  time.Time
	roundStart time.Time
	deadline   *deadline
	startTimer *deadline
}

func newSession(mode models.GameMode, private bool, clock clockwork.Clock, notifier Notifier, source *questions.Source, sink results.Sink, hooks sessionHooks, cfg sessionConfig) *Session {
	status := models.SessionStatusStarting
	if private {
		status = models.SessionStatusWaiting
	}
	return &Session{
		id:       uuid.New(),
		mode:     mode,
		private:  private,
		clock:    clock,
		notifier: notifier,
		source:   source,
		sink:     sink,
		hooks:    hooks,
		cfg:      cfg,
		cmds:     make(chan sessionCmd, 16),
		done:     make(chan struct{}),
		status:   status,
		gone:     make(map[uuid.UUID]bool),
		teams:    make(map[uuid.UUID]models.TeamKey),
		scores:   make(map[string]int),
		answers:  make(map[answerKey]*models.AnswerRecord),
	}
}

// ID returns the session id. Safe from any goroutine; the id never changes.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// post delivers a command to the run loop, dropping it if the session has
// been destroyed.
func (s *Session) post(cmd sessionCmd) {
	select {
	case s.cmds <- cmd:
	case <-s.done:
	}
}

func (s *Session) run() {
	defer close(s.done)
	for cmd := range s.cmds {
		switch c := cmd.(type) {
		case launchCmd:
			s.handleLaunch()
		case joinCmd:
			c.reply <- s.handleJoin(c.player)
		case leaveCmd:
			s.handleLeave(c.connID)
		case answerCmd:
			s.handleAnswer(c.connID, c.option)
		case beginCmd:
			s.handleBegin()
		case roundTimeoutCmd:
			s.handleRoundTimeout(c.index)
		case resendCmd:
			s.handleResend(c.connID)
		case infoCmd:
			s.handleInfo(c.connID)
		case destroyCmd:
			s.destroy()
		}
		if s.destroyed {
			return
		}
	}
}

// handleLaunch announces the freshly created session to its players and, for
// matched sessions, arms the fixed start delay.
func (s *Session) handleLaunch() {
	if s.private {
		host := s.players[0]
		s.notifier.Send(host.ConnID, events.New(events.EventTypePrivateRoomCreated, events.PrivateRoomCreatedPayload{
			RoomCode: s.code,
			RoomID:   s.id.String(),
			Mode:     string(s.mode),
			Capacity: s.mode.Capacity(),
		}))
		return
	}

	if s.mode.Teamed() {
		s.assignTeams()
	}
	s.armStartDelay()
	for _, p := range s.players {
		s.notifier.Send(p.ConnID, events.New(events.EventTypeMatchFound, s.matchFoundFor(p)))
	}
}

func (s *Session) armStartDelay() {
	s.startTimer = newDeadline(s.clock, s.cfg.startDelay, func() {
		s.post(beginCmd{})
	})
}

// matchFoundFor computes the opponent/teammate view for one player.
func (s *Session) matchFoundFor(p *models.Player) events.MatchFoundPayload {
	payload := events.MatchFoundPayload{
		RoomID: s.id.String(),
		Mode:   string(s.mode),
	}
	for _, other := range s.players {
		if other.ConnID == p.ConnID {
			continue
		}
		view := playerView(other)
		if s.mode.Teamed() && s.teams[other.ConnID] == s.teams[p.ConnID] {
			payload.Teammates = append(payload.Teammates, view)
		} else {
			payload.Opponents = append(payload.Opponents, view)
		}
	}
	if s.mode.Teamed() {
		payload.TeamAssignment = string(s.teams[p.ConnID])
	}
	return payload
}

// assignTeams pairs players in FIFO order: first half vs second half.
func (s *Session) assignTeams() {
	half := len(s.players) / 2
	for i, p := range s.players {
		if i < half {
			s.teams[p.ConnID] = models.TeamA
		} else {
			s.teams[p.ConnID] = models.TeamB
		}
	}
}

func (s *Session) handleJoin(player *models.Player) error {
	if s.status != models.SessionStatusWaiting {
		return validationErrorf("room %s is no longer accepting players", s.code)
	}
	if len(s.players) >= s.mode.Capacity() {
		return validationErrorf("room %s is full", s.code)
	}

	s.players = append(s.players, player)
	s.hooks.bind(player.ConnID, s.id)

	s.notifier.Send(player.ConnID, events.New(events.EventTypeJoinedPrivateRoom, events.JoinedPrivateRoomPayload{
		RoomID:   s.id.String(),
		Mode:     string(s.mode),
		Players:  s.rosterViews(),
		Capacity: s.mode.Capacity(),
	}))
	for _, p := range s.players {
		if p.ConnID == player.ConnID {
			continue
		}
		s.notifier.Send(p.ConnID, events.New(events.EventTypePlayerJoined, events.PlayerJoinedPayload{
			Player:      playerView(player),
			PlayerCount: len(s.players),
			Capacity:    s.mode.Capacity(),
		}))
	}

	if len(s.players) == s.mode.Capacity() {
		s.transition(models.SessionStatusStarting)
		if s.mode.Teamed() {
			s.assignTeams()
		}
		s.armStartDelay()
	}
	return nil
}

// handleBegin fires after the start delay: fetch the question set, move to
// PLAYING and open round 0.
func (s *Session) handleBegin() {
	if s.status != models.SessionStatusStarting {
		return
	}

	s.dropGone()
	if len(s.players) == 0 {
		s.destroy()
		return
	}
	if len(s.players) == 1 {
		s.finish()
		return
	}

	// The only blocking call on the session path; bounded by the source's
	// fetch timeout and backed by the fallback bank.
	s.questions = s.source.Questions(context.Background(), "general", "mixed", s.mode.QuestionCount())

	s.transition(models.SessionStatusPlaying)
	s.startedAt = s.clock.Now()
	s.initScores()

	s.idx = 0
	s.roundStart = s.clock.Now()
	s.armRoundDeadline()

	for _, p := range s.players {
		s.notifier.Send(p.ConnID, events.New(events.EventTypeGameStarted, events.GameStartedPayload{
			RoomID:         s.id.String(),
			Mode:           string(s.mode),
			TotalQuestions: len(s.questions),
			FirstQuestion:  questionView(s.questions[0]),
			Players:        s.rosterViews(),
		}))
	}
}

func (s *Session) initScores() {
	if s.mode.Teamed() {
		s.scores[string(models.TeamA)] = 0
		s.scores[string(models.TeamB)] = 0
		return
	}
	for _, p := range s.players {
		s.scores[p.Username] = 0
	}
}

// slotKey is the running-score slot an answer aggregates into: the player for
// 1v1, the player's team for team modes.
func (s *Session) slotKey(p *models.Player) string {
	if s.mode.Teamed() {
		return string(s.teams[p.ConnID])
	}
	return p.Username
}

func (s *Session) armRoundDeadline() {
	index := s.idx
	s.deadline = newDeadline(s.clock, s.cfg.roundDuration, func() {
		s.post(roundTimeoutCmd{index: index})
	})
}

func (s *Session) handleAnswer(connID uuid.UUID, option int) {
	if s.status != models.SessionStatusPlaying {
		return
	}
	player := s.playerByConn(connID)
	if player == nil {
		return
	}
	key := answerKey{questionIndex: s.idx, connID: connID}
	if _, dup := s.answers[key]; dup {
		return
	}

	now := s.clock.Now()
	elapsed := now.Sub(s.roundStart)
	if elapsed > s.cfg.roundDuration {
		// Too late; the deadline's forced-submission path covers this slot.
		return
	}

	question := s.questions[s.idx]
	correct := option >= 0 && option == question.CorrectAnswerIndex
	points := scorePoints(correct, elapsed)

	s.answers[key] = &models.AnswerRecord{
		ConnID:        connID,
		Username:      player.Username,
		QuestionIndex: s.idx,
		OptionIndex:   option,
		Correct:       correct,
		Points:        points,
		SubmittedAt:   now,
	}
	s.scores[s.slotKey(player)] += points

	s.notifier.Send(connID, events.New(events.EventTypeAnswerResult, events.AnswerResultPayload{
		IsCorrect:     correct,
		Points:        points,
		CorrectAnswer: question.CorrectAnswerIndex,
		Explanation:   question.Explanation,
		CurrentScores: s.scoresCopy(),
	}))

	if s.roundComplete() {
		s.advance()
	}
}

// roundComplete reports whether every player still in the roster has an
// answer record for the current index.
func (s *Session) roundComplete() bool {
	for _, p := range s.players {
		if _, ok := s.answers[answerKey{questionIndex: s.idx, connID: p.ConnID}]; !ok {
			return false
		}
	}
	return true
}

func (s *Session) handleRoundTimeout(index int) {
	if s.status != models.SessionStatusPlaying || index != s.idx {
		log.Debug().
			Str("session_id", s.id.String()).
			Int("fired_index", index).
			Int("current_index", s.idx).
			Msg("ignoring stale round timeout")
		return
	}

	question := s.questions[s.idx]
	now := s.clock.Now()
	for _, p := range s.players {
		key := answerKey{questionIndex: s.idx, connID: p.ConnID}
		if _, ok := s.answers[key]; ok {
			continue
		}
		s.answers[key] = &models.AnswerRecord{
			ConnID:        p.ConnID,
			Username:      p.Username,
			QuestionIndex: s.idx,
			OptionIndex:   models.NoAnswer,
			Correct:       false,
			Points:        incorrectPenalty,
			SubmittedAt:   now,
		}
		s.scores[s.slotKey(p)] += incorrectPenalty
	}

	for _, p := range s.players {
		s.notifier.Send(p.ConnID, events.New(events.EventTypeTimeUp, events.TimeUpPayload{
			CorrectAnswer: question.CorrectAnswerIndex,
			CurrentScores: s.scoresCopy(),
		}))
	}

	s.advance()
}

// advance moves to the next round or ends the game. The active deadline is
// cancelled before anything else so a completion/timeout race cannot produce
// a second advance for the same index.
func (s *Session) advance() {
	if s.deadline != nil {
		s.deadline.Cancel()
		s.deadline = nil
	}

	s.idx++
	if s.idx >= len(s.questions) {
		s.finish()
		return
	}

	s.roundStart = s.clock.Now()
	s.armRoundDeadline()

	payload := events.NextQuestionPayload{
		QuestionNumber: s.idx + 1,
		TotalQuestions: len(s.questions),
		Question:       questionView(s.questions[s.idx]),
		CurrentScores:  s.scoresCopy(),
	}
	for _, p := range s.players {
		s.notifier.Send(p.ConnID, events.New(events.EventTypeNextQuestion, payload))
	}
}

// finish ends the game, emits the summary, hands the result to the
// persistence collaborator and schedules destruction after a grace period.
func (s *Session) finish() {
	if s.deadline != nil {
		s.deadline.Cancel()
		s.deadline = nil
	}
	if !s.transition(models.SessionStatusEnded) {
		return
	}

	winner, tie := computeWinner(s.scores)
	participants := append(append([]*models.Player{}, s.players...), s.departed...)
	stats := playerStats(participants, s.answers)

	result := models.SessionResult{
		SessionID:   s.id,
		Mode:        s.mode,
		Winner:      winner,
		Tie:         tie,
		FinalScores: s.scoresCopy(),
		Stats:       stats,
		StartedAt:   s.startedAt,
		EndedAt:     s.clock.Now(),
	}

	payload := events.GameEndedPayload{
		Winner:         winner,
		Tie:            tie,
		FinalScores:    result.FinalScores,
		PerPlayerStats: statsViews(stats),
		Mode:           string(s.mode),
	}
	for _, p := range s.players {
		s.notifier.Send(p.ConnID, events.New(events.EventTypeGameEnded, payload))
		s.hooks.unbind(p.ConnID)
	}

	sink := s.sink
	go func() {
		if err := sink.Publish(context.Background(), result); err != nil {
			log.Error().
				Err(err).
				Str("session_id", result.SessionID.String()).
				Msg("failed to hand off session result")
		}
	}()

	s.startTimer = newDeadline(s.clock, s.cfg.endedGrace, func() {
		s.post(destroyCmd{})
	})
}

func (s *Session) handleLeave(connID uuid.UUID) {
	player := s.playerByConn(connID)
	if player == nil {
		return
	}
	s.hooks.unbind(connID)

	switch s.status {
	case models.SessionStatusWaiting:
		s.removeFromRoster(connID)
		if len(s.players) == 0 {
			s.destroy()
			return
		}
		for _, p := range s.players {
			s.notifier.Send(p.ConnID, events.New(events.EventTypePlayerLeft, events.PlayerLeftPayload{
				Username:    player.Username,
				PlayerCount: len(s.players),
				Capacity:    s.mode.Capacity(),
			}))
		}

	case models.SessionStatusStarting:
		// Roster is settled once the match forms; the begin step drops
		// departed players before play starts.
		s.gone[connID] = true
		for _, p := range s.players {
			if p.ConnID == connID || s.gone[p.ConnID] {
				continue
			}
			s.notifier.Send(p.ConnID, events.New(events.EventTypePlayerLeft, events.PlayerLeftPayload{
				Username:    player.Username,
				PlayerCount: s.remainingCount(),
				Capacity:    s.mode.Capacity(),
			}))
		}

	case models.SessionStatusPlaying:
		s.removeFromRoster(connID)
		s.departed = append(s.departed, player)
		canContinue := len(s.players) > 1
		for _, p := range s.players {
			s.notifier.Send(p.ConnID, events.New(events.EventTypePlayerDisconnected, events.PlayerDisconnectedPayload{
				Username:    player.Username,
				CanContinue: canContinue,
			}))
		}
		if !canContinue {
			s.finish()
			return
		}
		// The departed player no longer holds an expected answer slot; their
		// leaving may have completed the round.
		if s.roundComplete() {
			s.advance()
		}

	case models.SessionStatusEnded:
		// No session-state effect.
	}
}

func (s *Session) handleResend(connID uuid.UUID) {
	if s.status != models.SessionStatusPlaying || s.playerByConn(connID) == nil {
		return
	}
	s.notifier.Send(connID, events.New(events.EventTypeNextQuestion, events.NextQuestionPayload{
		QuestionNumber: s.idx + 1,
		TotalQuestions: len(s.questions),
		Question:       questionView(s.questions[s.idx]),
		CurrentScores:  s.scoresCopy(),
	}))
}

func (s *Session) handleInfo(connID uuid.UUID) {
	s.notifier.Send(connID, events.New(events.EventTypeRoomInfo, events.RoomInfoPayload{
		RoomID:         s.id.String(),
		Mode:           string(s.mode),
		Status:         string(s.status),
		Players:        s.rosterViews(),
		Capacity:       s.mode.Capacity(),
		QuestionNumber: s.idx + 1,
		TotalQuestions: len(s.questions),
		CurrentScores:  s.scoresCopy(),
	}))
}

// transition applies the one-directional lifecycle. Illegal transitions are a
// programming error; they are logged and refused rather than crashing the
// session.
func (s *Session) transition(next models.SessionStatus) bool {
	if !s.status.CanTransitionTo(next) {
		log.Error().
			Str("session_id", s.id.String()).
			Str("from", string(s.status)).
			Str("to", string(next)).
			Msg("illegal session status transition refused")
		return false
	}
	log.Debug().
		Str("session_id", s.id.String()).
		Str("from", string(s.status)).
		Str("to", string(next)).
		Msg("session status transition")
	s.status = next
	return true
}

// destroy tears the session down from inside the loop. The loop exits after
// the current command; later posts are dropped via the done channel.
func (s *Session) destroy() {
	if s.destroyed {
		return
	}
	s.teardown()
	s.destroyed = true
}

func (s *Session) teardown() {
	if s.deadline != nil {
		s.deadline.Cancel()
		s.deadline = nil
	}
	if s.startTimer != nil {
		s.startTimer.Cancel()
		s.startTimer = nil
	}
	for _, p := range s.players {
		s.hooks.unbind(p.ConnID)
	}
	s.hooks.destroy(s)
	log.Info().
		Str("session_id", s.id.String()).
		Str("status", string(s.status)).
		Msg("session destroyed")
}

func (s *Session) dropGone() {
	if len(s.gone) == 0 {
		return
	}
	kept := s.players[:0]
	for _, p := range s.players {
		if s.gone[p.ConnID] {
			s.departed = append(s.departed, p)
			continue
		}
		kept = append(kept, p)
	}
	s.players = kept
	s.gone = make(map[uuid.UUID]bool)
}

func (s *Session) remainingCount() int {
	n := 0
	for _, p := range s.players {
		if !s.gone[p.ConnID] {
			n++
		}
	}
	return n
}

func (s *Session) playerByConn(connID uuid.UUID) *models.Player {
	for _, p := range s.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (s *Session) removeFromRoster(connID uuid.UUID) {
	for i, p := range s.players {
		if p.ConnID == connID {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return
		}
	}
}

func (s *Session) rosterViews() []events.PlayerView {
	views := make([]events.PlayerView, 0, len(s.players))
	for _, p := range s.players {
		views = append(views, playerView(p))
	}
	return views
}

func (s *Session) scoresCopy() map[string]int {
	out := make(map[string]int, len(s.scores))
	for k, v := range s.scores {
		out[k] = v
	}
	return out
}

func playerView(p *models.Player) events.PlayerView {
	return events.PlayerView{
		Username: p.Username,
		Rank:     p.Rank,
	}
}

func questionView(q models.Question) events.QuestionView {
	return events.QuestionView{
		Question:   q.Question,
		Options:    q.Options,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

func statsViews(stats []models.PlayerStats) []events.PlayerStatsView {
	views := make([]events.PlayerStatsView, 0, len(stats))
	for _, st := range stats {
		views = append(views, events.PlayerStatsView{
			Username: st.Username,
			Answers:  st.Answers,
			Correct:  st.Correct,
			Accuracy: st.Accuracy,
			Points:   st.Points,
		})
	}
	return views
}
