package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerStats is the per-player derived summary computed at game end.
type PlayerStats struct {
	Username string  `json:"username"`
	Answers  int     `json:"answers"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	Points   int     `json:"points"`
}

// SessionResult is the final outcome of a session, handed off to the
// external persistence collaborator when a game ends.
type SessionResult struct {
	SessionID   uuid.UUID      `json:"session_id"`
	Mode        GameMode       `json:"mode"`
	Winner      string         `json:"winner"`
	Tie         bool           `json:"tie"`
	FinalScores map[string]int `json:"final_scores"`
	Stats       []PlayerStats  `json:"stats"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at"`
}
