package notifier

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

// EventLogSink appends every event to the appointment_events table.
type EventLogSink struct {
	db *gorm.DB
}

func NewEventLogSink(db *gorm.DB) *EventLogSink {
	return &EventLogSink{db: db}
}

func (s *EventLogSink) Name() string { return "event_log" }

func (s *EventLogSink) Deliver(ctx context.Context, msg Message) error {
	row := models.EventLog{
		ID:            msg.Envelope.ID,
		Event:         msg.Envelope.Event,
		AppointmentID: msg.AppointmentID,
		Source:        msg.Envelope.Source,
		Payload:       string(msg.Body),
		OccurredAt:    msg.OccurredAt,
	}

	return s.db.WithContext(ctx).Create(&row).Error
}
