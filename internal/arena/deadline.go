package arena

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// deadline is a single-shot cancellable timer. It is armed and disarmed only
// as part of modeled session transitions: fire runs exactly once unless
// Cancel wins the race, and Cancel after firing is a no-op.
type deadline struct {
	timer clockwork.Timer
	stop  chan struct{}
	once  sync.Once
}

// newDeadline arms a timer that invokes fire after d. fire runs on its own
// goroutine; callers route it back into the owning session's command channel
// rather than mutating state from here.
func newDeadline(clock clockwork.Clock, d time.Duration, fire func()) *deadline {
	dl := &deadline{
		timer: clock.NewTimer(d),
		stop:  make(chan struct{}),
	}
	go func() {
		select {
		case <-dl.timer.Chan():
			fire()
		case <-dl.stop:
			stopAndDrainTimer(dl.timer)
		}
	}()
	return dl
}

// Cancel disarms the deadline. Safe to call multiple times and after firing.
func (d *deadline) Cancel() {
	d.once.Do(func() {
		close(d.stop)
	})
}

// stopAndDrainTimer safely stops a timer and drains its channel, following
// the pattern from the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
