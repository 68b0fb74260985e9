package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/datelock"
	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/metrics"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

var tracer = otel.Tracer("github.com/BruuAmorim/eva-agendmento-sub000/internal/usecase/appointment")

const maxRelockAttempts = 3

var errRelockExhausted = errors.New("appointment moved between dates while locking")

// defaultLocker is shared by every use case built without a Locker, so they
// still serialize on the same dates.
var defaultLocker = datelock.NewLocalLocker()

// Deps is shared by every use case of the appointment lifecycle.
type Deps struct {
	Repo    domain.Repository
	// Locker nil means the process-wide LocalLocker.
	Locker  datelock.Locker
	Events  domain.EventEmitter
	Log     *logrus.Entry
	Metrics *metrics.Collector

	// Now must return the clinic's local time.
	Now   func() time.Time
	NewID func() string
}

func (d Deps) withDefaults() Deps {
	if d.Locker == nil {
		d.Locker = defaultLocker
	}
	if d.Events == nil {
		d.Events = noopEmitter{}
	}
	if d.Log == nil {
		d.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

// observe closes the span and records the outcome. Typed scheduling outcomes
// are expected and logged at debug; anything else is a fault.
func (d Deps) observe(span trace.Span, op string, err error) {
	defer span.End()

	d.Metrics.RecordOperation(op, domain.ErrorKind(err))
	if err == nil {
		return
	}

	span.RecordError(err)
	entry := d.Log.WithField("operation", op).WithError(err)
	if domain.IsExpected(err) {
		entry.WithField("kind", domain.ErrorKind(err)).Debug("appointment operation rejected")
		return
	}
	span.SetStatus(codes.Error, err.Error())
	entry.Error("appointment operation failed")
}

// lockExisting loads id and holds the lock of its date plus extraDates. If
// the record moved to another date before the lock was taken, it retries.
func (d Deps) lockExisting(
	ctx context.Context,
	id string,
	extraDates ...string,
) (*models.Appointment, datelock.Unlock, error) {

	for attempt := 0; attempt < maxRelockAttempts; attempt++ {
		seen, err := d.Repo.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}

		unlock, err := datelock.LockAll(ctx, d.Locker, append([]string{seen.Date}, extraDates...)...)
		if err != nil {
			return nil, nil, err
		}

		current, err := d.Repo.GetByID(ctx, id)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if current.Date == seen.Date {
			return current, unlock, nil
		}
		unlock()
	}
	return nil, nil, errRelockExhausted
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, domain.EventName, any) {}
