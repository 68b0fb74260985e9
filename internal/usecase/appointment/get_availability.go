package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/timezone"
)

type GetAvailability struct {
	Deps
	hours domain.BusinessHours
}

func NewGetAvailability(deps Deps, hours domain.BusinessHours) *GetAvailability {
	return &GetAvailability{
		Deps:  deps.withDefaults(),
		hours: hours,
	}
}

// Execute lists the free windows of date for the given duration (nil means
// the default). Past dates have no availability; today starts at the
// current minute.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	date string,
	durationMinutes *int,
) (_ []domain.Slot, err error) {

	ctx, span := tracer.Start(ctx, "appointment.availability")
	defer func() { uc.observe(span, "availability", err) }()

	// --------------------------------------------------
	// 1️⃣ Entrada
	// --------------------------------------------------
	date = strings.TrimSpace(date)

	var errs []string
	day, perr := time.Parse(domain.DateFormat, date)
	if perr != nil {
		errs = append(errs, "date must use the YYYY-MM-DD format")
	}

	duration := domain.DefaultDurationMinutes
	if durationMinutes != nil {
		duration = *durationMinutes
		if duration < domain.MinDurationMinutes || duration > domain.MaxDurationMinutes {
			errs = append(errs, fmt.Sprintf("duration_minutes must be between %d and %d", domain.MinDurationMinutes, domain.MaxDurationMinutes))
		}
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}

	// --------------------------------------------------
	// 2️⃣ Dia já passou / hoje
	// --------------------------------------------------
	now := uc.Now()
	today := timezone.Today(now)
	if date < today {
		return []domain.Slot{}, nil
	}

	notBefore := 0
	if date == today {
		notBefore = timezone.MinuteOfDay(now)
	}

	// --------------------------------------------------
	// 3️⃣ Ocupação do dia
	// --------------------------------------------------
	booked, err := uc.Repo.Query(ctx, domain.Filter{Date: date, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("load bookings for %s: %w", date, err)
	}

	busy := make([]domain.Interval, 0, len(booked))
	for i := range booked {
		busy = append(busy, domain.IntervalOf(&booked[i]))
	}

	return domain.AvailableSlots(domain.SlotQuery{
		Weekday:         day.Weekday(),
		DurationMinutes: duration,
		Hours:           uc.hours,
		Busy:            busy,
		NotBefore:       notBefore,
	}), nil
}
