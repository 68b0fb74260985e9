package appointment

import "context"

type EventName string

const (
	EventCreated   EventName = "appointment_created"
	EventUpdated   EventName = "appointment_updated"
	EventCancelled EventName = "appointment_cancelled"
	EventDeleted   EventName = "appointment_deleted"
)

// DeletedPayload is what appointment_deleted carries: the record is gone.
type DeletedPayload struct {
	ID string `json:"id"`
}

// EventEmitter hands committed transitions to the notifier. Emit must not
// block and has no result: delivery is best effort. ctx only carries trace
// context; it is never used to cancel delivery.
type EventEmitter interface {
	Emit(ctx context.Context, name EventName, payload any)
}
