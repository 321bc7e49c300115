package results

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/models"
)

// Sink is the hand-off boundary to the external persistence collaborator.
// The engine computes a SessionResult and hands it over; storage, leaderboard
// and statistics aggregation happen on the other side.
type Sink interface {
	Publish(ctx context.Context, result models.SessionResult) error
}

// LogSink writes results to the log only. Used when no NATS URL is
// configured, so standalone runs still complete games.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, result models.SessionResult) error {
	log.Info().
		Str("session_id", result.SessionID.String()).
		Str("mode", string(result.Mode)).
		Str("winner", result.Winner).
		Bool("tie", result.Tie).
		Msg("session result (no sink configured)")
	return nil
}

var _ Sink = LogSink{}
