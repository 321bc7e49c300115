package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the wire envelope for every message exchanged with a client.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// EventType discriminates the payload carried in Event.Data.
type EventType string

// Client -> server event types.
const (
	EventTypeJoinQueue           EventType = "joinQueue"
	EventTypeLeaveQueue          EventType = "leaveQueue"
	EventTypeCreatePrivateRoom   EventType = "createPrivateRoom"
	EventTypeJoinPrivateRoom     EventType = "joinPrivateRoom"
	EventTypeAnswerSubmit        EventType = "answerSubmit"
	EventTypeRequestNextQuestion EventType = "requestNextQuestion"
	EventTypeRequestRoomInfo     EventType = "requestRoomInfo"
	EventTypeGetQueueStatus      EventType = "getQueueStatus"
	EventTypePing                EventType = "ping"
)

// Server -> client event types.
const (
	EventTypeQueueJoined        EventType = "queueJoined"
	EventTypeQueueLeft          EventType = "queueLeft"
	EventTypeQueueStatus        EventType = "queueStatus"
	EventTypeMatchFound         EventType = "matchFound"
	EventTypePrivateRoomCreated EventType = "privateRoomCreated"
	EventTypeJoinedPrivateRoom  EventType = "joinedPrivateRoom"
	EventTypePlayerJoined       EventType = "playerJoined"
	EventTypePlayerLeft         EventType = "playerLeft"
	EventTypeGameStarted        EventType = "gameStarted"
	EventTypeNextQuestion       EventType = "nextQuestion"
	EventTypeAnswerResult       EventType = "answerResult"
	EventTypeTimeUp             EventType = "timeUp"
	EventTypeGameEnded          EventType = "gameEnded"
	EventTypePlayerDisconnected EventType = "playerDisconnected"
	EventTypeGameLimit          EventType = "gameLimit"
	EventTypeJoinRoomError      EventType = "joinRoomError"
	EventTypeRoomInfo           EventType = "roomInfo"
	EventTypeOnlineCount        EventType = "onlineCount"
	EventTypeError              EventType = "error"
	EventTypePong               EventType = "pong"
)

// New builds an event envelope around the given payload. Marshal failures
// cannot happen for the payload structs in this package, so the data field is
// simply left empty if one does.
func New(eventType EventType, payload any) Event {
	ev := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			ev.Data = data
		}
	}
	return ev
}
