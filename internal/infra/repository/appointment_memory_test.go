package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

func fixture(id, name, date, hhmm string, st domain.Status) *models.Appointment {
	ap := &models.Appointment{
		ID:              id,
		CustomerName:    name,
		Date:            date,
		Time:            hhmm,
		DurationMinutes: 30,
		Status:          string(st),
		CreatedAt:       time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC),
	}
	if err := domain.SetSchedule(ap); err != nil {
		panic(err)
	}
	return ap
}

func seed(t *testing.T, r domain.Repository) {
	t.Helper()
	ctx := context.Background()
	for _, ap := range []*models.Appointment{
		fixture("1", "Maria Silva", "2026-01-28", "14:00", domain.StatusPending),
		fixture("2", "João Souza", "2026-01-28", "09:00", domain.StatusConfirmed),
		fixture("3", "MARIANA Costa", "2026-01-29", "10:00", domain.StatusCancelled),
		fixture("4", "Pedro 100%", "2026-02-02", "08:00", domain.StatusCompleted),
	} {
		_, err := r.Insert(ctx, ap)
		require.NoError(t, err)
	}
}

func ids(aps []models.Appointment) []string {
	out := make([]string, 0, len(aps))
	for _, ap := range aps {
		out = append(out, ap.ID)
	}
	return out
}

// repositoryContract runs against every Repository implementation.
func repositoryContract(t *testing.T, newRepo func(t *testing.T) domain.Repository) {
	ctx := context.Background()

	t.Run("query filters and ordering", func(t *testing.T) {
		r := newRepo(t)
		seed(t, r)

		all, err := r.Query(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1", "3", "4"}, ids(all))

		byName, err := r.Query(ctx, domain.Filter{CustomerName: "mari"})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "3"}, ids(byName))

		literal, err := r.Query(ctx, domain.Filter{CustomerName: "100%"})
		require.NoError(t, err)
		assert.Equal(t, []string{"4"}, ids(literal))

		byDate, err := r.Query(ctx, domain.Filter{Date: "2026-01-28"})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1"}, ids(byDate))

		byStatus, err := r.Query(ctx, domain.Filter{Status: domain.StatusCancelled})
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, ids(byStatus))

		byRange, err := r.Query(ctx, domain.Filter{StartDate: "2026-01-29", EndDate: "2026-02-02"})
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "4"}, ids(byRange))

		active, err := r.Query(ctx, domain.Filter{StartDate: "2026-01-28", EndDate: "2026-01-31", ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1"}, ids(active))

		none, err := r.Query(ctx, domain.Filter{Date: "2030-01-01"})
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("get update remove", func(t *testing.T) {
		r := newRepo(t)
		seed(t, r)

		ap, err := r.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Maria Silva", ap.CustomerName)
		assert.Equal(t, 14*60, ap.StartMinute)

		ap.Notes = "first visit"
		updated, err := r.Update(ctx, "1", ap)
		require.NoError(t, err)
		assert.Equal(t, "first visit", updated.Notes)

		_, err = r.Update(ctx, "missing", ap)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, r.Remove(ctx, "1"))
		assert.ErrorIs(t, r.Remove(ctx, "1"), domain.ErrNotFound)

		_, err = r.GetByID(ctx, "1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("insert rejects duplicate id", func(t *testing.T) {
		r := newRepo(t)
		seed(t, r)

		dup := fixture("1", "Outra Pessoa", "2026-03-02", "16:00", domain.StatusPending)
		_, err := r.Insert(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrDuplicateID)

		kept, err := r.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Maria Silva", kept.CustomerName)
		assert.Equal(t, "2026-01-28", kept.Date)
	})
}

func TestAppointmentMemoryRepository(t *testing.T) {
	repositoryContract(t, func(*testing.T) domain.Repository {
		return NewAppointmentMemoryRepository()
	})
}

func TestAppointmentMemoryRepository_ReturnsCopies(t *testing.T) {
	r := NewAppointmentMemoryRepository()
	ctx := context.Background()

	ap := fixture("1", "Maria Silva", "2026-01-28", "10:00", domain.StatusPending)
	_, err := r.Insert(ctx, ap)
	require.NoError(t, err)

	ap.CustomerName = "changed outside"
	got, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.CustomerName)

	got.Status = string(domain.StatusCancelled)
	again, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), again.Status)
}
