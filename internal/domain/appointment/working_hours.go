package appointment

import (
	"errors"
	"fmt"
	"time"
)

const DefaultSlotStepMinutes = 30

// BusinessHours is the clinic's bookable window. It is configuration, never
// a hardcoded constant in the enumerator.
type BusinessHours struct {
	Open  int // minutes after midnight
	Close int

	// Lunch is an optional break excluded from every open day.
	Lunch *Interval

	// Closed marks weekdays without appointments, indexed by time.Weekday.
	Closed [7]bool

	Step int
}

// DefaultBusinessHours is 08:00–18:00 every day, 30 minute step, no lunch.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Open:  8 * 60,
		Close: 18 * 60,
		Step:  DefaultSlotStepMinutes,
	}
}

// ParseBusinessHours builds BusinessHours from HH:MM strings. lunchStart and
// lunchEnd must be both set or both empty.
func ParseBusinessHours(open, close, lunchStart, lunchEnd string, closed []time.Weekday, step int) (BusinessHours, error) {
	h := BusinessHours{Step: step}

	var err error
	if h.Open, err = TimeToMinutes(open); err != nil {
		return BusinessHours{}, fmt.Errorf("open: %w", err)
	}
	if h.Close, err = TimeToMinutes(close); err != nil {
		return BusinessHours{}, fmt.Errorf("close: %w", err)
	}

	switch {
	case lunchStart != "" && lunchEnd != "":
		ls, err := TimeToMinutes(lunchStart)
		if err != nil {
			return BusinessHours{}, fmt.Errorf("lunch start: %w", err)
		}
		le, err := TimeToMinutes(lunchEnd)
		if err != nil {
			return BusinessHours{}, fmt.Errorf("lunch end: %w", err)
		}
		h.Lunch = &Interval{Start: ls, End: le}
	case lunchStart != "" || lunchEnd != "":
		return BusinessHours{}, errors.New("lunch start and end must be set together")
	}

	for _, wd := range closed {
		if wd < time.Sunday || wd > time.Saturday {
			return BusinessHours{}, fmt.Errorf("invalid weekday %d", wd)
		}
		h.Closed[wd] = true
	}

	if err := h.Validate(); err != nil {
		return BusinessHours{}, err
	}
	return h, nil
}

func (h BusinessHours) Validate() error {
	if h.Close <= h.Open {
		return errors.New("close must be after open")
	}
	if h.Step <= 0 {
		return errors.New("step must be positive")
	}
	if h.Lunch != nil {
		if h.Lunch.End <= h.Lunch.Start {
			return errors.New("lunch end must be after lunch start")
		}
		if h.Lunch.Start < h.Open || h.Lunch.End > h.Close {
			return errors.New("lunch must fall inside business hours")
		}
	}
	return nil
}

func (h BusinessHours) IsOpenOn(wd time.Weekday) bool {
	return !h.Closed[wd]
}

// OverlapsLunch reports whether iv touches the lunch break, if one is set.
func (h BusinessHours) OverlapsLunch(iv Interval) bool {
	return h.Lunch != nil && iv.Overlaps(*h.Lunch)
}
