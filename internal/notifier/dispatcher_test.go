package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/metrics"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

var fixedNow = time.Date(2026, 1, 28, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600))

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// MockSink records deliveries through testify/mock.
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Name() string { return "mock" }

func (m *MockSink) Deliver(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// blockingSink holds every delivery until release is closed.
type blockingSink struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	got     []Message
}

func newBlockingSink() *blockingSink {
	return &blockingSink{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (s *blockingSink) Name() string { return "blocking" }

func (s *blockingSink) Deliver(ctx context.Context, msg Message) error {
	s.started <- struct{}{}
	<-s.release
	s.mu.Lock()
	s.got = append(s.got, msg)
	s.mu.Unlock()
	return nil
}

// counter sums every series of name whose labels include labels.
func counter(t *testing.T, c *metrics.Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	series:
		for _, m := range f.GetMetric() {
			for _, p := range m.GetLabel() {
				if v, ok := labels[p.GetName()]; ok && v != p.GetValue() {
					continue series
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func sampleAppointment() models.Appointment {
	return models.Appointment{
		ID:              "ap-1",
		CustomerName:    "Maria Silva",
		Date:            "2026-01-28",
		Time:            "10:00",
		DurationMinutes: 60,
		Status:          "pending",
	}
}

func TestDispatcher_DeliversEnvelopeToEverySink(t *testing.T) {
	first, second := new(MockSink), new(MockSink)

	var got Message
	first.On("Deliver", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(Message) }).
		Return(nil).Once()
	second.On("Deliver", mock.Anything, mock.Anything).Return(nil).Once()

	m := metrics.NewCollector()
	d := NewDispatcher(quietLog(), m, Options{Now: func() time.Time { return fixedNow }}, first, second)

	d.Emit(context.Background(), domain.EventCreated, sampleAppointment())
	require.NoError(t, d.Close(context.Background()))

	first.AssertExpectations(t)
	second.AssertExpectations(t)

	assert.Equal(t, "ap-1", got.AppointmentID)
	assert.Equal(t, "appointment_created", got.Envelope.Event)
	assert.NotEmpty(t, got.Envelope.ID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &body))
	assert.Equal(t, "appointment_created", body["event"])
	assert.Equal(t, "eva-agendamento", body["source"])
	assert.Equal(t, "2026-01-28T10:00:00-03:00", body["timestamp"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "ap-1", data["id"])
	assert.Equal(t, "Maria Silva", data["customer_name"])

	assert.Equal(t, 2.0, counter(t, m, "notifier_events_total", map[string]string{"status": "delivered"}))
}

func TestDispatcher_DeletedCarriesOnlyTheID(t *testing.T) {
	sink := new(MockSink)
	var got Message
	sink.On("Deliver", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(Message) }).
		Return(nil)

	d := NewDispatcher(quietLog(), nil, Options{}, sink)
	d.Emit(context.Background(), domain.EventDeleted, domain.DeletedPayload{ID: "ap-9"})
	require.NoError(t, d.Close(context.Background()))

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(got.Body, &body))
	assert.Equal(t, map[string]any{"id": "ap-9"}, body.Data)
	assert.Equal(t, "ap-9", got.AppointmentID)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	failing, healthy := new(MockSink), new(MockSink)
	failing.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	healthy.On("Deliver", mock.Anything, mock.Anything).Return(nil)

	m := metrics.NewCollector()
	d := NewDispatcher(quietLog(), m, Options{}, failing, healthy)

	d.Emit(context.Background(), domain.EventUpdated, sampleAppointment())
	d.Emit(context.Background(), domain.EventCancelled, sampleAppointment())
	require.NoError(t, d.Close(context.Background()))

	healthy.AssertNumberOfCalls(t, "Deliver", 2)
	assert.Equal(t, 2.0, counter(t, m, "notifier_events_total", map[string]string{"status": "failed"}))
}

func TestDispatcher_SinkPanicDoesNotKillWorker(t *testing.T) {
	sink := new(MockSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Panic("boom").Once()
	sink.On("Deliver", mock.Anything, mock.Anything).Return(nil).Once()

	d := NewDispatcher(quietLog(), nil, Options{}, sink)
	d.Emit(context.Background(), domain.EventCreated, sampleAppointment())
	d.Emit(context.Background(), domain.EventUpdated, sampleAppointment())
	require.NoError(t, d.Close(context.Background()))

	sink.AssertNumberOfCalls(t, "Deliver", 2)
}

func TestDispatcher_EmitNeverBlocksAndDropsWhenFull(t *testing.T) {
	sink := newBlockingSink()
	m := metrics.NewCollector()
	d := NewDispatcher(quietLog(), m, Options{QueueSize: 1, Workers: 1}, sink)

	d.Emit(context.Background(), domain.EventCreated, sampleAppointment())
	<-sink.started // o worker está preso na primeira entrega

	done := make(chan struct{})
	go func() {
		d.Emit(context.Background(), domain.EventUpdated, sampleAppointment()) // enfileirado
		d.Emit(context.Background(), domain.EventUpdated, sampleAppointment()) // descartado
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}

	assert.Equal(t, 1.0, counter(t, m, "notifier_events_total", map[string]string{"status": "dropped"}))

	close(sink.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, sink.got, 2)
}

func TestDispatcher_EmitAfterCloseIsDropped(t *testing.T) {
	sink := new(MockSink)
	d := NewDispatcher(quietLog(), nil, Options{}, sink)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		d.Emit(context.Background(), domain.EventCreated, sampleAppointment())
	})
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	sink := newBlockingSink()
	d := NewDispatcher(quietLog(), nil, Options{}, sink)
	d.Emit(context.Background(), domain.EventCreated, sampleAppointment())
	<-sink.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(sink.release)
}

func TestDispatcher_DeliveryHasTimeout(t *testing.T) {
	sink := new(MockSink)
	var deadline time.Time
	sink.On("Deliver", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			deadline, _ = args.Get(0).(context.Context).Deadline()
		}).
		Return(nil)

	start := time.Now()
	d := NewDispatcher(quietLog(), nil, Options{Timeout: 3 * time.Second}, sink)
	d.Emit(context.Background(), domain.EventCreated, sampleAppointment())
	require.NoError(t, d.Close(context.Background()))

	require.False(t, deadline.IsZero())
	assert.WithinDuration(t, start.Add(3*time.Second), deadline, time.Second)
}

func TestDispatcher_CallerCancellationDoesNotAbortDelivery(t *testing.T) {
	sink := new(MockSink)
	var ctxErr error
	sink.On("Deliver", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { ctxErr = args.Get(0).(context.Context).Err() }).
		Return(nil)

	d := NewDispatcher(quietLog(), nil, Options{}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	d.Emit(ctx, domain.EventCreated, sampleAppointment())
	cancel()
	require.NoError(t, d.Close(context.Background()))

	sink.AssertNumberOfCalls(t, "Deliver", 1)
	assert.NoError(t, ctxErr)
}

func TestDispatcher_SlowSinkDoesNotDelayOthers(t *testing.T) {
	slow := newBlockingSink()
	fast := new(MockSink)
	delivered := make(chan struct{}, 1)
	fast.On("Deliver", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { delivered <- struct{}{} }).
		Return(nil).Once()

	d := NewDispatcher(quietLog(), nil, Options{Workers: 1}, slow, fast)
	d.Emit(context.Background(), domain.EventCreated, sampleAppointment())

	<-slow.started
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("fast sink waited for the blocked one")
	}

	close(slow.release)
	require.NoError(t, d.Close(context.Background()))
	fast.AssertExpectations(t)
}
