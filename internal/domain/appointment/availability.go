package appointment

import (
	"iter"
	"slices"
	"time"
)

type Slot struct {
	Time            string `json:"time"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
}

type SlotQuery struct {
	Weekday         time.Weekday
	DurationMinutes int
	Hours           BusinessHours
	Busy            []Interval

	// NotBefore drops candidates starting earlier (minutes after midnight);
	// zero keeps the whole day.
	NotBefore int
}

// Slots walks candidate starts from Open to Close-duration inclusive, one
// Step at a time, yielding the windows that clear lunch and every busy
// interval. The sequence holds no state and can be ranged over repeatedly.
func Slots(q SlotQuery) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		h := q.Hours
		if q.DurationMinutes <= 0 || h.Step <= 0 || !h.IsOpenOn(q.Weekday) {
			return
		}

		for start := h.Open; start+q.DurationMinutes <= h.Close; start += h.Step {
			if start < q.NotBefore {
				continue
			}

			window := NewInterval(start, q.DurationMinutes)

			// almoço
			if h.OverlapsLunch(window) {
				continue
			}

			if overlapsAny(window, q.Busy) {
				continue
			}

			slot := Slot{
				Time:            MinutesToTime(window.Start),
				End:             MinutesToTime(window.End),
				DurationMinutes: q.DurationMinutes,
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// AvailableSlots collects Slots in ascending start order.
func AvailableSlots(q SlotQuery) []Slot {
	out := slices.Collect(Slots(q))
	if out == nil {
		return []Slot{}
	}
	return out
}

func overlapsAny(window Interval, busy []Interval) bool {
	for _, b := range busy {
		if window.Overlaps(b) {
			return true
		}
	}
	return false
}
