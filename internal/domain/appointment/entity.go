package appointment

import (
	"strings"
	"time"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

// ===============================
// Patch
// ===============================

// Patch holds the fields an update may change; nil means "keep".
type Patch struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	Date            *string
	Time            *string
	DurationMinutes *int
	Notes           *string
	Status          *Status
}

// ApplyPatch merges p onto a copy of ap. rescheduled is true when date, time
// or duration differ from the original record.
func ApplyPatch(ap models.Appointment, p Patch) (merged models.Appointment, rescheduled bool) {
	merged = ap

	if p.CustomerName != nil {
		merged.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.CustomerEmail != nil {
		merged.CustomerEmail = strings.TrimSpace(*p.CustomerEmail)
	}
	if p.CustomerPhone != nil {
		merged.CustomerPhone = strings.TrimSpace(*p.CustomerPhone)
	}
	if p.Date != nil {
		merged.Date = strings.TrimSpace(*p.Date)
	}
	if p.Time != nil {
		merged.Time = strings.TrimSpace(*p.Time)
	}
	if p.DurationMinutes != nil {
		merged.DurationMinutes = *p.DurationMinutes
	}
	if p.Notes != nil {
		merged.Notes = *p.Notes
	}

	rescheduled = merged.Date != ap.Date ||
		merged.Time != ap.Time ||
		merged.DurationMinutes != ap.DurationMinutes
	return merged, rescheduled
}

// CandidateOf adapts a stored record for Validate.
func CandidateOf(ap *models.Appointment) Candidate {
	d := ap.DurationMinutes
	return Candidate{
		CustomerName:    ap.CustomerName,
		CustomerEmail:   ap.CustomerEmail,
		Date:            ap.Date,
		Time:            ap.Time,
		DurationMinutes: &d,
	}
}

// SetSchedule recomputes the derived minute range from Time and
// DurationMinutes and normalizes Time to HH:MM, so "9:30" sorts as "09:30".
func SetSchedule(ap *models.Appointment) error {
	start, err := TimeToMinutes(ap.Time)
	if err != nil {
		return err
	}
	ap.Time = MinutesToTime(start)
	ap.StartMinute = start
	ap.EndMinute = start + ap.DurationMinutes
	return nil
}

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.UpdatedAt = now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	ap.UpdatedAt = now
	return nil
}

// Cancel is the terminal transition; reason may be empty.
func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	if r := strings.TrimSpace(reason); r != "" {
		ap.CancellationReason = &r
	}
	ap.UpdatedAt = now
	return nil
}

// Transition applies a status change requested through a patch. Cancellation
// has its own operation and is refused here.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	switch to {
	case Status(ap.Status):
		return nil
	case StatusConfirmed:
		return Confirm(ap, now)
	case StatusCompleted:
		return Complete(ap, now)
	case StatusCancelled:
		return NewValidationError("status cancelled requires the cancel operation")
	}
	return NewValidationError("status " + string(to) + " cannot be set by an update")
}
