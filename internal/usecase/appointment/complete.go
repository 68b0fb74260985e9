package appointment

import (
	"context"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

type CompleteAppointment struct {
	Deps
}

func NewCompleteAppointment(deps Deps) *CompleteAppointment {
	return &CompleteAppointment{Deps: deps.withDefaults()}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	id string,
) (_ *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.complete")
	defer func() { uc.observe(span, "complete", err) }()

	ap, unlock, err := uc.lockExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := domain.Complete(ap, uc.Now()); err != nil {
		return nil, err
	}

	saved, err := uc.Repo.Update(ctx, id, ap)
	if err != nil {
		return nil, err
	}

	uc.Events.Emit(ctx, domain.EventUpdated, *saved)
	return saved, nil
}
