package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGameMode(t *testing.T) {
	mode, err := ParseGameMode("1v1")
	require.NoError(t, err)
	assert.Equal(t, ModeDuel, mode)
	assert.Equal(t, 2, mode.Capacity())
	assert.Equal(t, 10, mode.QuestionCount())
	assert.False(t, mode.Teamed())

	mode, err = ParseGameMode("2v2")
	require.NoError(t, err)
	assert.Equal(t, ModeTeams, mode)
	assert.Equal(t, 4, mode.Capacity())
	assert.Equal(t, 15, mode.QuestionCount())
	assert.True(t, mode.Teamed())

	_, err = ParseGameMode("3v3")
	assert.Error(t, err)
}

func TestSessionStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to SessionStatus }{
		{SessionStatusWaiting, SessionStatusStarting},
		{SessionStatusStarting, SessionStatusPlaying},
		{SessionStatusStarting, SessionStatusEnded},
		{SessionStatusPlaying, SessionStatusEnded},
	}
	for _, tr := range allowed {
		assert.True(t, tr.from.CanTransitionTo(tr.to), "%s -> %s", tr.from, tr.to)
	}

	refused := []struct{ from, to SessionStatus }{
		{SessionStatusWaiting, SessionStatusPlaying},
		{SessionStatusWaiting, SessionStatusEnded},
		{SessionStatusPlaying, SessionStatusWaiting},
		{SessionStatusEnded, SessionStatusPlaying},
		{SessionStatusEnded, SessionStatusWaiting},
		{SessionStatusPlaying, SessionStatusStarting},
	}
	for _, tr := range refused {
		assert.False(t, tr.from.CanTransitionTo(tr.to), "%s -> %s", tr.from, tr.to)
	}
}
