package models

// SessionStatus defines the lifecycle state of a session.
type SessionStatus string

const (
	SessionStatusWaiting  SessionStatus = "WAITING"
	SessionStatusStarting SessionStatus = "STARTING"
	SessionStatusPlaying  SessionStatus = "PLAYING"
	SessionStatusEnded    SessionStatus = "ENDED"
)

// CanTransitionTo reports whether the one-directional lifecycle permits
// moving to the given status. ENDED is terminal; no state is re-entered.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionStatusWaiting:
		return next == SessionStatusStarting
	case SessionStatusStarting:
		return next == SessionStatusPlaying || next == SessionStatusEnded
	case SessionStatusPlaying:
		return next == SessionStatusEnded
	default:
		return false
	}
}
