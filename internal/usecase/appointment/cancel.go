package appointment

import (
	"context"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

type CancelAppointment struct {
	Deps
}

func NewCancelAppointment(deps Deps) *CancelAppointment {
	return &CancelAppointment{Deps: deps.withDefaults()}
}

// Execute frees the slot; a second cancel fails with ErrAlreadyCancelled and
// leaves CancelledAt untouched.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	id string,
	reason string,
) (_ *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.cancel")
	defer func() { uc.observe(span, "cancel", err) }()

	ap, unlock, err := uc.lockExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := domain.Cancel(ap, reason, uc.Now()); err != nil {
		return nil, err
	}

	saved, err := uc.Repo.Update(ctx, id, ap)
	if err != nil {
		return nil, err
	}

	uc.Events.Emit(ctx, domain.EventCancelled, *saved)
	return saved, nil
}
