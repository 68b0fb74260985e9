package dto

import (
	"time"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
	ucAppointment "github.com/BruuAmorim/eva-agendmento-sub000/internal/usecase/appointment"
)

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes *int   `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

func (r CreateAppointmentRequest) Input() ucAppointment.CreateAppointmentInput {
	return ucAppointment.CreateAppointmentInput{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		Date:            r.Date,
		Time:            r.Time,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}
}

// UpdateAppointmentRequest only carries the fields present in the body.
type UpdateAppointmentRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
}

func (r UpdateAppointmentRequest) Patch() (domain.Patch, error) {
	p := domain.Patch{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		Date:            r.Date,
		Time:            r.Time,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}

	if r.Status != nil {
		st, ok := domain.ParseStatus(*r.Status)
		if !ok {
			return domain.Patch{}, domain.NewValidationError("status must be one of pending, confirmed, cancelled, completed")
		}
		p.Status = &st
	}
	return p, nil
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// RESPONSES
// ======================================================

type AppointmentDTO struct {
	ID                 string     `json:"id"`
	CustomerName       string     `json:"customer_name"`
	CustomerEmail      string     `json:"customer_email,omitempty"`
	CustomerPhone      string     `json:"customer_phone,omitempty"`
	Date               string     `json:"date"`
	Time               string     `json:"time"`
	EndTime            string     `json:"end_time"`
	DurationMinutes    int        `json:"duration_minutes"`
	Notes              string     `json:"notes,omitempty"`
	Status             string     `json:"status"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func NewAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:                 ap.ID,
		CustomerName:       ap.CustomerName,
		CustomerEmail:      ap.CustomerEmail,
		CustomerPhone:      ap.CustomerPhone,
		Date:               ap.Date,
		Time:               ap.Time,
		EndTime:            domain.MinutesToTime(ap.EndMinute),
		DurationMinutes:    ap.DurationMinutes,
		Notes:              ap.Notes,
		Status:             ap.Status,
		CancelledAt:        ap.CancelledAt,
		CancellationReason: ap.CancellationReason,
		CompletedAt:        ap.CompletedAt,
		CreatedAt:          ap.CreatedAt,
		UpdatedAt:          ap.UpdatedAt,
	}
}

func NewAppointmentDTOs(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, NewAppointmentDTO(&aps[i]))
	}
	return out
}

type AvailabilityDTO struct {
	Date            string        `json:"date"`
	DurationMinutes int           `json:"duration_minutes"`
	Slots           []domain.Slot `json:"slots"`
}
