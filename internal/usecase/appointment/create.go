package appointment

import (
	"context"
	"strings"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Date string
	Time string

	// nil usa DefaultDurationMinutes
	DurationMinutes *int

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	Deps
	conflicts *ConflictDetector
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	deps = deps.withDefaults()
	return &CreateAppointment{
		Deps:      deps,
		conflicts: NewConflictDetector(deps.Repo),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (_ *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.create")
	defer func() { uc.observe(span, "create", err) }()

	now := uc.Now()

	// --------------------------------------------------
	// 1️⃣ Validação
	// --------------------------------------------------
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)

	candidate := domain.Candidate{
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: in.DurationMinutes,
	}
	if errs := domain.Validate(candidate, timezone.Today(now), domain.ValidateOptions{CheckPastDate: true}); len(errs) > 0 {
		return nil, domain.NewValidationError(errs...)
	}

	duration := domain.DefaultDurationMinutes
	if in.DurationMinutes != nil {
		duration = *in.DurationMinutes
	}

	// --------------------------------------------------
	// 2️⃣ Exclusão por data
	// --------------------------------------------------
	unlock, err := uc.Locker.Lock(ctx, in.Date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// --------------------------------------------------
	// 3️⃣ Conflito de horário
	// --------------------------------------------------
	taken, err := uc.conflicts.HasConflict(ctx, in.Date, in.Time, duration, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrSlotUnavailable
	}

	// --------------------------------------------------
	// 4️⃣ Persistência
	// --------------------------------------------------
	ap := &models.Appointment{
		ID:              uc.NewID(),
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: duration,
		Notes:           in.Notes,
		Status:          string(domain.InitialStatus()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := domain.SetSchedule(ap); err != nil {
		return nil, err
	}

	saved, err := uc.Repo.Insert(ctx, ap)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Notificação
	// --------------------------------------------------
	uc.Events.Emit(ctx, domain.EventCreated, *saved)

	return saved, nil
}
