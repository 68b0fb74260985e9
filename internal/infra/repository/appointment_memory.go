package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

// AppointmentMemoryRepository keeps appointments in an owned map. Every read
// returns copies, so callers always see a consistent snapshot.
type AppointmentMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Appointment
}

func NewAppointmentMemoryRepository() *AppointmentMemoryRepository {
	return &AppointmentMemoryRepository{byID: make(map[string]models.Appointment)}
}

func (r *AppointmentMemoryRepository) Insert(
	ctx context.Context,
	ap *models.Appointment,
) (*models.Appointment, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[ap.ID]; exists {
		return nil, fmt.Errorf("insert appointment %s: %w", ap.ID, domain.ErrDuplicateID)
	}
	r.byID[ap.ID] = clone(*ap)
	out := clone(*ap)
	return &out, nil
}

func (r *AppointmentMemoryRepository) GetByID(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := clone(ap)
	return &out, nil
}

func (r *AppointmentMemoryRepository) Query(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ToLower(strings.TrimSpace(f.CustomerName))

	out := make([]models.Appointment, 0)
	for _, ap := range r.byID {
		if f.ActiveOnly && domain.Status(ap.Status) == domain.StatusCancelled {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(ap.CustomerName), name) {
			continue
		}
		if f.Date != "" && ap.Date != f.Date {
			continue
		}
		if f.Status != "" && domain.Status(ap.Status) != f.Status {
			continue
		}
		if f.StartDate != "" && ap.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && ap.Date > f.EndDate {
			continue
		}
		out = append(out, clone(ap))
	}

	slices.SortFunc(out, func(a, b models.Appointment) int {
		return cmp.Or(
			cmp.Compare(a.Date, b.Date),
			cmp.Compare(a.Time, b.Time),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out, nil
}

func (r *AppointmentMemoryRepository) Update(
	ctx context.Context,
	id string,
	ap *models.Appointment,
) (*models.Appointment, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return nil, domain.ErrNotFound
	}

	stored := clone(*ap)
	stored.ID = id
	r.byID[id] = stored

	out := clone(stored)
	return &out, nil
}

func (r *AppointmentMemoryRepository) Remove(
	ctx context.Context,
	id string,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// clone detaches pointer fields so stored records cannot be mutated from outside.
func clone(ap models.Appointment) models.Appointment {
	if ap.CancelledAt != nil {
		t := *ap.CancelledAt
		ap.CancelledAt = &t
	}
	if ap.CompletedAt != nil {
		t := *ap.CompletedAt
		ap.CompletedAt = &t
	}
	if ap.CancellationReason != nil {
		r := *ap.CancellationReason
		ap.CancellationReason = &r
	}
	return ap
}

// Compile-time check
var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
