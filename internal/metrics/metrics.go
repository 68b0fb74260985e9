package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	operations     *prometheus.CounterVec
	notifierEvents *prometheus.CounterVec
	queueDepth     prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appointment_operations_total",
				Help: "Appointment lifecycle operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		notifierEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifier_events_total",
				Help: "Notifier events by sink and delivery status",
			},
			[]string{"event", "sink", "status"},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "notifier_queue_depth",
				Help: "Events waiting in the notifier queue",
			},
		),
	}

	c.registry.MustRegister(
		c.operations,
		c.notifierEvents,
		c.queueDepth,
		collectors.NewGoCollector(),
	)
	return c
}

// RecordOperation counts one lifecycle call; outcome is an error kind label.
func (c *Collector) RecordOperation(operation, outcome string) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordNotifierEvent(event, sink, status string) {
	if c == nil {
		return
	}
	c.notifierEvents.WithLabelValues(event, sink, status).Inc()
}

func (c *Collector) SetQueueDepth(n int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(n))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
