package appointment

import (
	"context"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

type GetAppointment struct {
	Deps
}

func NewGetAppointment(deps Deps) *GetAppointment {
	return &GetAppointment{Deps: deps.withDefaults()}
}

func (uc *GetAppointment) Execute(ctx context.Context, id string) (_ *models.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "appointment.get")
	defer func() { uc.observe(span, "get", err) }()

	return uc.Repo.GetByID(ctx, id)
}
