package appointment

import (
	"errors"
	"strings"
)

var (
	ErrValidationFailed  = errors.New("appointment: validation failed")
	ErrSlotUnavailable   = errors.New("appointment: slot unavailable")
	ErrNotFound          = errors.New("appointment: not found")
	ErrAlreadyCancelled  = errors.New("appointment: already cancelled")
	ErrMalformedTime     = errors.New("appointment: malformed time")
	ErrTerminalState     = errors.New("appointment: terminal state")
	ErrInvalidTransition = errors.New("appointment: invalid status transition")
	ErrDuplicateID       = errors.New("appointment: duplicate id")
)

// ValidationError carries every rule violation found for a candidate.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return ErrValidationFailed.Error()
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(v.Errors, "; ")
}

// Is lets errors.Is(err, ErrValidationFailed) match any ValidationError.
func (v *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Errors: msgs}
}

// ErrorKind maps scheduling outcomes to a stable label for logs and metrics.
// Anything not listed is a fault and reported as "unexpected".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, ErrMalformedTime):
		return "malformed_time"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyCancelled):
		return "already_cancelled"
	case errors.Is(err, ErrTerminalState):
		return "terminal_state"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	}
	return "unexpected"
}

// IsExpected reports whether err is a typed scheduling outcome rather than a fault.
func IsExpected(err error) bool {
	k := ErrorKind(err)
	return k != "unexpected" && k != "ok"
}
