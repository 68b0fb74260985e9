package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/timezone"
)

type UpdateAppointment struct {
	Deps
	conflicts *ConflictDetector
}

func NewUpdateAppointment(deps Deps) *UpdateAppointment {
	deps = deps.withDefaults()
	return &UpdateAppointment{
		Deps:      deps,
		conflicts: NewConflictDetector(deps.Repo),
	}
}

// Execute merges p onto the stored record. Past-date checks only apply when
// the date or time moves, so notes can still be edited on the day after.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	id string,
	p domain.Patch,
) (_ *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.update")
	defer func() { uc.observe(span, "update", err) }()

	// a data nova também precisa de exclusão
	var targetDates []string
	if p.Date != nil {
		if d := strings.TrimSpace(*p.Date); isDate(d) {
			targetDates = append(targetDates, d)
		}
	}

	existing, unlock, err := uc.lockExisting(ctx, id, targetDates...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := domain.CanEdit(domain.Status(existing.Status)); err != nil {
		return nil, err
	}

	now := uc.Now()
	merged, rescheduled := domain.ApplyPatch(*existing, p)

	opts := domain.ValidateOptions{
		CheckPastDate: merged.Date != existing.Date || merged.Time != existing.Time,
	}
	if errs := domain.Validate(domain.CandidateOf(&merged), timezone.Today(now), opts); len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}

	if p.Status != nil {
		if err := domain.Transition(&merged, *p.Status, now); err != nil {
			return nil, err
		}
	}

	if rescheduled {
		if err := domain.SetSchedule(&merged); err != nil {
			return nil, err
		}

		taken, err := uc.conflicts.HasConflict(ctx, merged.Date, merged.Time, merged.DurationMinutes, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrSlotUnavailable
		}
	}

	merged.UpdatedAt = now
	saved, err := uc.Repo.Update(ctx, id, &merged)
	if err != nil {
		return nil, err
	}

	uc.Events.Emit(ctx, domain.EventUpdated, *saved)
	return saved, nil
}

func isDate(s string) bool {
	_, err := time.Parse(domain.DateFormat, s)
	return err == nil
}
