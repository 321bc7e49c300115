package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/models"
)

// NATSSink publishes final session results to a NATS subject, one subject
// per mode so downstream consumers can filter.
type NATSSink struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSSink connects to NATS with reconnect handling.
func NewNATSSink(url, subjectPrefix string) (*NATSSink, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSSink{
		nc:            nc,
		subjectPrefix: subjectPrefix,
	}, nil
}

func (s *NATSSink) Publish(_ context.Context, result models.SessionResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal session result: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", s.subjectPrefix, result.Mode)
	if err := s.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish session result: %w", err)
	}

	log.Debug().
		Str("session_id", result.SessionID.String()).
		Str("subject", subject).
		Msg("session result published")
	return nil
}

// Close drains the connection.
func (s *NATSSink) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}

var _ Sink = (*NATSSink)(nil)
