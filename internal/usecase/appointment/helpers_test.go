package appointment

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/datelock"
	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/infra/repository"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/metrics"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

var clinicTZ = time.FixedZone("BRT", -3*3600)

// MockEmitter accepts every event and keeps the calls for assertions.
type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) Emit(ctx context.Context, name domain.EventName, payload any) {
	m.Called(name, payload)
}

func (m *MockEmitter) events() []domain.EventName {
	var out []domain.EventName
	for _, c := range m.Calls {
		out = append(out, c.Arguments.Get(0).(domain.EventName))
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	repo    *repository.AppointmentMemoryRepository
	events  *MockEmitter
	clock   *fakeClock
	metrics *metrics.Collector

	create       *CreateAppointment
	update       *UpdateAppointment
	confirm      *ConfirmAppointment
	complete     *CompleteAppointment
	cancel       *CancelAppointment
	remove       *DeleteAppointment
	get          *GetAppointment
	find         *FindAppointments
	availability *GetAvailability
	conflicts    *ConflictDetector
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	events := new(MockEmitter)
	events.On("Emit", mock.Anything, mock.Anything).Return()

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	var seq atomic.Int64
	clock := &fakeClock{now: time.Date(2026, 1, 20, 9, 0, 0, 0, clinicTZ)}

	env := &testEnv{
		repo:    repository.NewAppointmentMemoryRepository(),
		events:  events,
		clock:   clock,
		metrics: metrics.NewCollector(),
	}

	deps := Deps{
		Repo:    env.repo,
		Locker:  datelock.NewLocalLocker(),
		Events:  events,
		Log:     logrus.NewEntry(quiet),
		Metrics: env.metrics,
		Now:     clock.Now,
		NewID:   func() string { return fmt.Sprintf("ap-%03d", seq.Add(1)) },
	}

	env.create = NewCreateAppointment(deps)
	env.update = NewUpdateAppointment(deps)
	env.confirm = NewConfirmAppointment(deps)
	env.complete = NewCompleteAppointment(deps)
	env.cancel = NewCancelAppointment(deps)
	env.remove = NewDeleteAppointment(deps)
	env.get = NewGetAppointment(deps)
	env.find = NewFindAppointments(deps)
	env.availability = NewGetAvailability(deps, domain.DefaultBusinessHours())
	env.conflicts = NewConflictDetector(env.repo)
	return env
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func statusPtr(s domain.Status) *domain.Status { return &s }

func input(date, hhmm string, duration int) CreateAppointmentInput {
	return CreateAppointmentInput{
		CustomerName:    "Maria Silva",
		CustomerEmail:   "maria@example.com",
		Date:            date,
		Time:            hhmm,
		DurationMinutes: intPtr(duration),
	}
}

func (e *testEnv) mustCreate(t *testing.T, date, hhmm string, duration int) *models.Appointment {
	t.Helper()
	ap, err := e.create.Execute(context.Background(), input(date, hhmm, duration))
	require.NoError(t, err)
	return ap
}

func slotTimes(slots []domain.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}
