package appointment

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/infra/repository"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

func assertNoOverlap(t *testing.T, aps []models.Appointment) {
	t.Helper()
	for i := range aps {
		for j := i + 1; j < len(aps); j++ {
			a, b := &aps[i], &aps[j]
			if a.Date != b.Date {
				continue
			}
			assert.False(t, domain.IntervalOf(a).Overlaps(domain.IntervalOf(b)),
				"%s %s+%d overlaps %s+%d", a.Date, a.Time, a.DurationMinutes, b.Time, b.DurationMinutes)
		}
	}
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(t)

	const writers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.create.Execute(context.Background(), input(day, "10:00", 60))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrSlotUnavailable):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, rejected)
}

func TestLifecycle_ConcurrentMixedWritesKeepNoOverlap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seeded := make([]string, 0, 8)
	for _, hhmm := range []string{"08:00", "10:00", "12:00", "14:00"} {
		seeded = append(seeded, env.mustCreate(t, day, hhmm, 30).ID)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 40; i++ {
				start := domain.MinutesToTime(8*60 + rng.Intn(36)*15)
				dur := []int{15, 30, 45, 60, 90}[rng.Intn(5)]

				var err error
				switch rng.Intn(3) {
				case 0:
					_, err = env.create.Execute(ctx, input(day, start, dur))
				case 1:
					_, err = env.update.Execute(ctx, seeded[rng.Intn(len(seeded))], domain.Patch{Time: &start, DurationMinutes: &dur})
				default:
					_, err = env.update.Execute(ctx, seeded[rng.Intn(len(seeded))], domain.Patch{Date: strPtr("2026-01-29"), Time: &start})
				}
				if err != nil && !domain.IsExpected(err) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(int64(w + 1))
	}
	wg.Wait()

	active, err := env.repo.Query(ctx, domain.Filter{ActiveOnly: true})
	require.NoError(t, err)
	assertNoOverlap(t, active)
}

// Random bookings against a simple model: create must accept exactly the
// candidates that do not overlap an accepted one.
func TestCreate_NoOverlapProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(20260128))

	for round := 0; round < 20; round++ {
		env := newTestEnv(t)
		ctx := context.Background()

		var accepted []domain.Interval
		for i := 0; i < 60; i++ {
			start := 8*60 + rng.Intn(40)*15
			dur := domain.MinDurationMinutes + rng.Intn(12)*15
			cand := domain.NewInterval(start, dur)

			want := true
			for _, iv := range accepted {
				if cand.Overlaps(iv) {
					want = false
					break
				}
			}

			_, err := env.create.Execute(ctx, input(day, domain.MinutesToTime(start), dur))
			if want {
				require.NoError(t, err, "round %d: %v", round, cand)
				accepted = append(accepted, cand)
			} else {
				require.ErrorIs(t, err, domain.ErrSlotUnavailable, "round %d: %v", round, cand)
			}
		}

		active, err := env.repo.Query(ctx, domain.Filter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, active, len(accepted))
		assertNoOverlap(t, active)
	}
}

// slowRepo widens the gap between the conflict query and the write.
type slowRepo struct {
	*repository.AppointmentMemoryRepository
	delay time.Duration
}

func (r *slowRepo) Query(ctx context.Context, f domain.Filter) ([]models.Appointment, error) {
	aps, err := r.AppointmentMemoryRepository.Query(ctx, f)
	time.Sleep(r.delay)
	return aps, err
}

func TestLifecycle_DefaultLockerIsSharedAcrossUseCases(t *testing.T) {
	repo := &slowRepo{AppointmentMemoryRepository: repository.NewAppointmentMemoryRepository(), delay: 50 * time.Millisecond}
	clock := &fakeClock{now: time.Date(2026, 1, 20, 9, 0, 0, 0, clinicTZ)}
	deps := Deps{Repo: repo, Now: clock.Now}

	create := NewCreateAppointment(deps)
	update := NewUpdateAppointment(deps)
	ctx := context.Background()

	existing, err := create.Execute(ctx, input(day, "14:00", 60))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		createErr error
		updateErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, createErr = create.Execute(ctx, input(day, "10:00", 60))
	}()
	go func() {
		defer wg.Done()
		_, updateErr = update.Execute(ctx, existing.ID, domain.Patch{Time: strPtr("10:00")})
	}()
	wg.Wait()

	errs := []error{createErr, updateErr}
	assert.Equal(t, 1, countNil(errs), "create=%v update=%v", createErr, updateErr)
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
		}
	}

	all, err := repo.Query(ctx, domain.Filter{Date: day, ActiveOnly: true})
	require.NoError(t, err)
	assertNoOverlap(t, all)
}

func countNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}
