package appointment

import (
	"context"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

// Filter narrows Query. Zero values mean "no constraint". StartDate and
// EndDate are inclusive and used together.
type Filter struct {
	CustomerName string
	Date         string
	Status       Status
	StartDate    string
	EndDate      string

	// ActiveOnly drops cancelled appointments.
	ActiveOnly bool
}

// Repository is the persistence contract of the scheduling core. Every
// lookup miss is reported as ErrNotFound.
type Repository interface {
	Insert(ctx context.Context, ap *models.Appointment) (*models.Appointment, error)

	GetByID(ctx context.Context, id string) (*models.Appointment, error)

	// Query returns matches ordered by (date, time) ascending.
	Query(ctx context.Context, f Filter) ([]models.Appointment, error)

	Update(ctx context.Context, id string, ap *models.Appointment) (*models.Appointment, error)

	Remove(ctx context.Context, id string) error
}
