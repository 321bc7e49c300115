package arena

import "fmt"

// ValidationError covers client mistakes that are surfaced directly to the
// requesting connection: unknown invite code, full room, room no longer
// joinable. No state is mutated on a validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// LimitExceededError refuses session creation for non-premium players over
// the daily free-game cap. It carries the machine-readable counts the
// gameLimit event needs.
type LimitExceededError struct {
	Played int
	Limit  int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily game limit reached: %d of %d", e.Played, e.Limit)
}
