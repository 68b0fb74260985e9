package appointment

import (
	"context"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
)

// DeleteAppointment removes the record entirely. It is not a status change:
// use CancelAppointment to free a slot and keep history.
type DeleteAppointment struct {
	Deps
}

func NewDeleteAppointment(deps Deps) *DeleteAppointment {
	return &DeleteAppointment{Deps: deps.withDefaults()}
}

func (uc *DeleteAppointment) Execute(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "appointment.delete")
	defer func() { uc.observe(span, "delete", err) }()

	ap, unlock, err := uc.lockExisting(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := uc.Repo.Remove(ctx, ap.ID); err != nil {
		return err
	}

	uc.Events.Emit(ctx, domain.EventDeleted, domain.DeletedPayload{ID: ap.ID})
	return nil
}
