package questions

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/models"
)

// Fetcher is the external question collaborator boundary.
type Fetcher interface {
	Fetch(ctx context.Context, category, difficulty string, count int) ([]models.Question, error)
}

// Source wraps a Fetcher so that a question set is always produced: on any
// collaborator failure it substitutes the built-in bank. Failures are logged
// for operability and never surfaced to clients.
type Source struct {
	fetcher Fetcher
	timeout time.Duration
}

// NewSource builds a Source with the given fetch timeout. A nil fetcher means
// the fallback bank is always used.
func NewSource(fetcher Fetcher, timeout time.Duration) *Source {
	return &Source{
		fetcher: fetcher,
		timeout: timeout,
	}
}

// Questions returns exactly count questions.
func (s *Source) Questions(ctx context.Context, category, difficulty string, count int) []models.Question {
	if s.fetcher == nil {
		return FallbackSet(count)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	qs, err := s.fetcher.Fetch(fetchCtx, category, difficulty, count)
	if err != nil {
		log.Warn().
			Err(err).
			Str("category", category).
			Int("count", count).
			Msg("question fetch failed, using fallback bank")
		return FallbackSet(count)
	}

	if len(qs) > count {
		qs = qs[:count]
	}
	for len(qs) < count {
		qs = append(qs, fallbackBank[len(qs)%len(fallbackBank)])
	}
	return qs
}
