package appointment

import (
	"context"
	"strings"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// FindAppointmentsInput mirrors the list query string. Empty fields are
// ignored; StartDate and EndDate must be given together.
type FindAppointmentsInput struct {
	CustomerName string
	Date         string
	Status       string
	StartDate    string
	EndDate      string
}

func (in FindAppointmentsInput) filter() (domain.Filter, error) {
	f := domain.Filter{
		CustomerName: strings.TrimSpace(in.CustomerName),
		Date:         strings.TrimSpace(in.Date),
		StartDate:    strings.TrimSpace(in.StartDate),
		EndDate:      strings.TrimSpace(in.EndDate),
	}

	var errs []string
	if f.Date != "" && !isDate(f.Date) {
		errs = append(errs, "date must use the YYYY-MM-DD format")
	}

	if s := strings.TrimSpace(in.Status); s != "" {
		st, ok := domain.ParseStatus(s)
		if !ok {
			errs = append(errs, "status must be one of pending, confirmed, cancelled, completed")
		}
		f.Status = st
	}

	switch {
	case f.StartDate == "" && f.EndDate == "":
	case f.StartDate == "" || f.EndDate == "":
		errs = append(errs, "start_date and end_date must be provided together")
	case !isDate(f.StartDate) || !isDate(f.EndDate):
		errs = append(errs, "start_date and end_date must use the YYYY-MM-DD format")
	case f.StartDate > f.EndDate:
		errs = append(errs, "start_date must not be after end_date")
	}

	if len(errs) > 0 {
		return domain.Filter{}, domain.NewValidationError(errs...)
	}
	return f, nil
}

// ======================================================
// USE CASE
// ======================================================

type FindAppointments struct {
	Deps
}

func NewFindAppointments(deps Deps) *FindAppointments {
	return &FindAppointments{Deps: deps.withDefaults()}
}

func (uc *FindAppointments) Execute(
	ctx context.Context,
	in FindAppointmentsInput,
) (_ []models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.find")
	defer func() { uc.observe(span, "find", err) }()

	f, err := in.filter()
	if err != nil {
		return nil, err
	}

	list, err := uc.Repo.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Appointment{}
	}
	return list, nil
}
