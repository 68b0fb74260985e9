package appointment

import "fmt"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further transition or edit is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ===============================
// Validations
// ===============================

// CanEdit define se os campos de um agendamento ainda podem mudar
func CanEdit(current Status) error {
	if current.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, current)
	}
	return nil
}

func CanConfirm(current Status) error {
	if err := CanEdit(current); err != nil {
		return err
	}
	if current != StatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, StatusConfirmed)
	}
	return nil
}

func CanComplete(current Status) error {
	if err := CanEdit(current); err != nil {
		return err
	}
	if current != StatusConfirmed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, StatusCompleted)
	}
	return nil
}

func CanCancel(current Status) error {
	switch current {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusCompleted:
		return fmt.Errorf("%w: %s", ErrTerminalState, current)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
