package appointment

import "github.com/BruuAmorim/eva-agendmento-sub000/internal/models"

// Interval is a half-open [Start, End) range of minutes after midnight.
type Interval struct {
	Start int
	End   int
}

func NewInterval(startMinute, durationMinutes int) Interval {
	return Interval{Start: startMinute, End: startMinute + durationMinutes}
}

// Overlaps is true when both ranges share at least one minute; touching
// endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// IntervalOf returns the booked range of a stored appointment.
func IntervalOf(ap *models.Appointment) Interval {
	return Interval{Start: ap.StartMinute, End: ap.EndMinute}
}

// FirstConflict returns the first non-cancelled appointment whose interval
// overlaps candidate, ignoring the record identified by excludingID (an empty
// excludingID excludes nothing).
func FirstConflict(existing []models.Appointment, candidate Interval, excludingID string) (*models.Appointment, bool) {
	for i := range existing {
		ap := &existing[i]
		if excludingID != "" && ap.ID == excludingID {
			continue
		}
		if Status(ap.Status) == StatusCancelled {
			continue
		}
		if candidate.Overlaps(IntervalOf(ap)) {
			return ap, true
		}
	}
	return nil, false
}
