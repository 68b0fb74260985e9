package models

import "time"

// EventLog is the append-only trail of notifier events.
type EventLog struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Event         string `gorm:"size:50;not null;index" json:"event"`
	AppointmentID string `gorm:"size:36;index" json:"appointment_id"`
	Source        string `gorm:"size:50" json:"source"`
	Payload       string `gorm:"type:text" json:"payload"`

	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (EventLog) TableName() string {
	return "appointment_events"
}
