package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerCounts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewMemoryLedger(clock)
	ctx := context.Background()

	played, err := l.PlayedToday(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, played)

	n, err := l.RecordPlay(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = l.RecordPlay(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	played, err = l.PlayedToday(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, played)
}

func TestMemoryLedgerIsolatesPlayers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewMemoryLedger(clock)
	ctx := context.Background()

	_, err := l.RecordPlay(ctx, "alice")
	require.NoError(t, err)

	played, err := l.PlayedToday(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, played)
}

func TestMemoryLedgerResetsAtMidnight(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := NewMemoryLedger(clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := l.RecordPlay(ctx, "alice")
		require.NoError(t, err)
	}

	clock.Advance(24 * time.Hour)

	played, err := l.PlayedToday(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, played)

	n, err := l.RecordPlay(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
