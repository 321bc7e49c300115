package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Ledger counts games played per player per calendar day. The date key makes
// the free-tier cap reset implicitly at midnight UTC.
type Ledger interface {
	// PlayedToday returns how many games the player has started today.
	PlayedToday(ctx context.Context, username string) (int, error)
	// RecordPlay increments today's counter and returns the new value.
	RecordPlay(ctx context.Context, username string) (int, error)
}

const dateLayout = "2006-01-02"

// MemoryLedger is the in-process implementation, used in tests and
// standalone runs without Redis.
type MemoryLedger struct {
	clock clockwork.Clock

	mu     sync.Mutex
	counts map[string]int // "<username>:<yyyy-mm-dd>" -> plays
	day    string
}

// NewMemoryLedger builds a MemoryLedger on the given clock.
func NewMemoryLedger(clock clockwork.Clock) *MemoryLedger {
	return &MemoryLedger{
		clock:  clock,
		counts: make(map[string]int),
	}
}

func (l *MemoryLedger) key(username string) string {
	return username + ":" + l.clock.Now().UTC().Format(dateLayout)
}

// pruneLocked drops stale entries once the date rolls over, so the map does
// not grow without bound.
func (l *MemoryLedger) pruneLocked() {
	today := l.clock.Now().UTC().Format(dateLayout)
	if l.day == today {
		return
	}
	l.day = today
	l.counts = make(map[string]int)
}

func (l *MemoryLedger) PlayedToday(_ context.Context, username string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked()
	return l.counts[l.key(username)], nil
}

func (l *MemoryLedger) RecordPlay(_ context.Context, username string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked()
	k := l.key(username)
	l.counts[k]++
	return l.counts[k], nil
}

var _ Ledger = (*MemoryLedger)(nil)

// ledgerTTL keeps Redis keys around past the day boundary so clock skew
// between servers cannot resurrect a reset counter.
const ledgerTTL = 48 * time.Hour
