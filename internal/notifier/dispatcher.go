package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/metrics"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

const DefaultSource = "eva-agendamento"

// Envelope is the wire shape of every event.
type Envelope struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// Message is an envelope queued for delivery, already serialized once.
type Message struct {
	Envelope      Envelope
	AppointmentID string
	OccurredAt    time.Time
	Body          []byte

	span trace.SpanContext
}

// Sink delivers a message to one external system.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

type Options struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
	Source    string
	Now       func() time.Time
}

// Dispatcher is the asynchronous event path: Emit enqueues on a bounded
// channel and returns at once, workers deliver to every sink. Delivery
// failures are logged and counted and never reach the caller.
type Dispatcher struct {
	log     *logrus.Entry
	metrics *metrics.Collector
	sinks   []Sink

	queue   chan Message
	timeout time.Duration
	source  string
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(log *logrus.Entry, m *metrics.Collector, opts Options, sinks ...Sink) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Dispatcher{
		log:     log,
		metrics: m,
		sinks:   sinks,
		queue:   make(chan Message, opts.QueueSize),
		timeout: opts.Timeout,
		source:  opts.Source,
		now:     opts.Now,
	}

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Emit implements appointment.EventEmitter. ctx is read only for its trace
// context; its cancellation does not affect delivery.
func (d *Dispatcher) Emit(ctx context.Context, name domain.EventName, payload any) {
	msg, err := d.newMessage(ctx, name, payload)
	if err != nil {
		d.log.WithError(err).WithField("event", name).Error("notifier: cannot encode event")
		d.metrics.RecordNotifierEvent(string(name), "-", "encode_failed")
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.WithField("event", name).Warn("notifier closed, dropping event")
		d.metrics.RecordNotifierEvent(string(name), "-", "dropped")
		return
	}

	select {
	case d.queue <- msg:
		d.metrics.SetQueueDepth(len(d.queue))
	default:
		// fila cheia: descartamos o evento, nunca quebrar a operação
		d.log.WithFields(logrus.Fields{
			"event":          name,
			"appointment_id": msg.AppointmentID,
		}).Warn("notifier queue full, dropping event")
		d.metrics.RecordNotifierEvent(string(name), "-", "dropped")
	}
}

// Close stops intake and waits for queued events to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) newMessage(ctx context.Context, name domain.EventName, payload any) (Message, error) {
	occurred := d.now()
	env := Envelope{
		ID:        uuid.NewString(),
		Event:     string(name),
		Data:      payload,
		Timestamp: occurred.Format(time.RFC3339),
		Source:    d.source,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s: %w", name, err)
	}

	return Message{
		Envelope:      env,
		AppointmentID: appointmentID(payload),
		OccurredAt:    occurred,
		Body:          body,
		span:          trace.SpanContextFromContext(ctx),
	}, nil
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		d.fanOut(msg)
	}
}

// fanOut delivers msg to every sink at once; each sink is bounded by the
// delivery timeout, never by the other sinks.
func (d *Dispatcher) fanOut(msg Message) {
	if len(d.sinks) == 1 {
		d.deliver(d.sinks[0], msg)
		return
	}

	var wg sync.WaitGroup
	for _, s := range d.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			d.deliver(s, msg)
		}(s)
	}
	wg.Wait()
}

func (d *Dispatcher) deliver(s Sink, msg Message) {
	base := context.Background()
	if msg.span.IsValid() {
		base = trace.ContextWithRemoteSpanContext(base, msg.span)
	}
	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	entry := d.log.WithFields(logrus.Fields{
		"event":          msg.Envelope.Event,
		"event_id":       msg.Envelope.ID,
		"appointment_id": msg.AppointmentID,
		"sink":           s.Name(),
	})

	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("notifier: sink panicked")
			d.metrics.RecordNotifierEvent(msg.Envelope.Event, s.Name(), "failed")
		}
	}()

	if err := s.Deliver(ctx, msg); err != nil {
		entry.WithError(err).Warn("notifier: delivery failed")
		d.metrics.RecordNotifierEvent(msg.Envelope.Event, s.Name(), "failed")
		return
	}

	entry.Debug("notifier: delivered")
	d.metrics.RecordNotifierEvent(msg.Envelope.Event, s.Name(), "delivered")
}

func appointmentID(payload any) string {
	switch p := payload.(type) {
	case models.Appointment:
		return p.ID
	case *models.Appointment:
		if p != nil {
			return p.ID
		}
	case domain.DeletedPayload:
		return p.ID
	}
	return ""
}
