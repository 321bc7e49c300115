package gateway

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/arena"
	"github.com/triviarena/triviarena/internal/events"
	"github.com/triviarena/triviarena/internal/models"
)

// Engine defines what the gateway needs from the orchestration engine.
type Engine interface {
	JoinQueue(player *models.Player, mode string) error
	LeaveQueue(connID uuid.UUID, mode string) error
	QueueStatus(connID uuid.UUID) error
	CreatePrivateRoom(host *models.Player, mode string) error
	JoinPrivateRoom(player *models.Player, code string) error
	SubmitAnswer(connID uuid.UUID, roomID string, answerIndex int) error
	RequestNextQuestion(connID uuid.UUID, roomID string) error
	RequestRoomInfo(connID uuid.UUID, roomID string) error
	Disconnect(connID uuid.UUID)
	ActiveSessions() int
}

// handleClientMessage decodes one client event and routes it into the
// engine. Failures are scoped to this connection only.
func (c *Connection) handleClientMessage(message []byte) {
	var ev events.Event
	if err := json.Unmarshal(message, &ev); err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", c.ID.String()).
			Msg("malformed client event")
		c.send(events.New(events.EventTypeError, events.ErrorPayload{Message: "malformed event"}))
		return
	}

	engine := c.Manager.engine
	var err error

	switch ev.Type {
	case events.EventTypeJoinQueue:
		var p events.JoinQueuePayload
		if err = json.Unmarshal(ev.Data, &p); err == nil {
			err = engine.JoinQueue(c.player(p.PlayerData), p.Mode)
		}

	case events.EventTypeLeaveQueue:
		var p events.LeaveQueuePayload
		if err = json.Unmarshal(ev.Data, &p); err == nil {
			err = engine.LeaveQueue(c.ID, p.Mode)
		}

	case events.EventTypeGetQueueStatus:
		err = engine.QueueStatus(c.ID)

	case events.EventTypeCreatePrivateRoom:
		var p events.CreatePrivateRoomPayload
		if err = json.Unmarshal(ev.Data, &p); err == nil {
			err = engine.CreatePrivateRoom(c.player(p.PlayerData), p.Mode)
		}

	case events.EventTypeJoinPrivateRoom:
		var p events.JoinPrivateRoomPayload
		if err = json.Unmarshal(ev.Data, &p); err == nil {
			err = engine.JoinPrivateRoom(c.player(p.PlayerData), p.RoomCode)
		}

	case events.EventTypeAnswerSubmit:
		var p events.AnswerSubmitPayload
		if err = json.Unmarshal(ev.Data, &p); err == nil {
			err = engine.SubmitAnswer(c.ID, p.RoomID, p.AnswerIndex)
		}

	case events.EventTypeRequestNextQuestion:
		var p events.RequestNextQuestionPayload
		if err = json.Unmarshal(ev.Data, &p); err == nil {
			err = engine.RequestNextQuestion(c.ID, p.RoomID)
		}

	case events.EventTypeRequestRoomInfo:
		var p events.RequestRoomInfoPayload
		if err = json.Unmarshal(ev.Data, &p); err == nil {
			err = engine.RequestRoomInfo(c.ID, p.RoomID)
		}

	case events.EventTypePing:
		c.send(events.New(events.EventTypePong, nil))

	default:
		log.Debug().
			Str("connection_id", c.ID.String()).
			Str("event_type", string(ev.Type)).
			Msg("unknown client event type - ignoring")
	}

	if err != nil {
		c.sendFailure(ev.Type, err)
	}
}

// sendFailure maps engine errors onto the client protocol.
func (c *Connection) sendFailure(requestType events.EventType, err error) {
	var limitErr *arena.LimitExceededError
	if errors.As(err, &limitErr) {
		c.send(events.New(events.EventTypeGameLimit, events.GameLimitPayload{
			Message:          "daily free game limit reached",
			GamesPlayedToday: limitErr.Played,
			Limit:            limitErr.Limit,
		}))
		return
	}

	var validationErr *arena.ValidationError
	if errors.As(err, &validationErr) && requestType == events.EventTypeJoinPrivateRoom {
		c.send(events.New(events.EventTypeJoinRoomError, events.JoinRoomErrorPayload{
			Message: validationErr.Message,
		}))
		return
	}

	c.send(events.New(events.EventTypeError, events.ErrorPayload{Message: err.Error()}))
}

// player materializes the ephemeral Player owned by this connection.
func (c *Connection) player(data events.PlayerData) *models.Player {
	username := data.Username
	if username == "" {
		username = "player-" + c.ID.String()[:8]
	}
	return &models.Player{
		ConnID:   c.ID,
		Username: username,
		Rank:     data.Rank,
		Coins:    data.Coins,
		Premium:  data.Premium,
		JoinedAt: time.Now(),
	}
}
