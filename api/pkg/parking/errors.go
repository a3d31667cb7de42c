package parking

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sentinel errors for the error kinds in the design doc. Callers should use
// errors.Is against these, never string matching.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNoAvailableSlots  = errors.New("no available slots")
	ErrMalformedInput    = errors.New("malformed input")
)

// notFoundf wraps ErrNotFound with context about what wasn't found.
func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// invalidTransitionf names both states, as required by the design doc.
func invalidTransitionf(from, to any) error {
	return fmt.Errorf("cannot transition from %v to %v: %w", from, to, ErrInvalidTransition)
}

// Retryable classifies a façade error the way this codebase's scheduler
// classifies scheduling errors: only a transient "nothing free right now"
// condition is worth retrying. Everything else is terminal for this call.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoAvailableSlots) {
		log.Trace().Err(err).Msg("allocation failed, caller may retry after a release")
		return true
	}
	return false
}
