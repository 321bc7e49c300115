package models

import (
	"time"

	"github.com/google/uuid"
)

// Player is the ephemeral representation of a connected client. It is owned
// by the connection gateway; queues and sessions hold references only.
type Player struct {
	ConnID   uuid.UUID `json:"conn_id"`
	Username string    `json:"username"`
	Rank     int       `json:"rank"`
	Coins    int       `json:"coins"`
	Premium  bool      `json:"premium"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamKey identifies one side of a team mode session.
type TeamKey string

const (
	TeamA TeamKey = "team_a"
	TeamB TeamKey = "team_b"
)
