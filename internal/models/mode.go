package models

import "fmt"

// GameMode defines the fixed-size mode a session is played in.
type GameMode string

const (
	ModeDuel  GameMode = "1v1"
	ModeTeams GameMode = "2v2"
)

// ParseGameMode validates a client-supplied mode string.
func ParseGameMode(s string) (GameMode, error) {
	switch GameMode(s) {
	case ModeDuel:
		return ModeDuel, nil
	case ModeTeams:
		return ModeTeams, nil
	default:
		return "", fmt.Errorf("unknown game mode %q", s)
	}
}

// Capacity is the exact player count the mode requires.
func (m GameMode) Capacity() int {
	switch m {
	case ModeTeams:
		return 4
	default:
		return 2
	}
}

// QuestionCount is the size of the question set bound to a session.
func (m GameMode) QuestionCount() int {
	switch m {
	case ModeTeams:
		return 15
	default:
		return 10
	}
}

// Teamed reports whether scores are aggregated per team instead of per
// player.
func (m GameMode) Teamed() bool {
	return m == ModeTeams
}
