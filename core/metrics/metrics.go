package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the counters emitted while processing temperature payloads.
type Metrics struct {
	registry *prometheus.Registry

	succeeded prometheus.Counter
	failed    prometheus.Counter
	outcomes  *prometheus.CounterVec
	sensors   prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		succeeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "temperature_messages_success_total",
			Help:        "Messages processed without requiring a store change.",
			ConstLabels: prometheus.Labels{"type": "success"},
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "temperature_messages_failures_total",
			Help:        "Messages that could not be decoded or processed.",
			ConstLabels: prometheus.Labels{"type": "failure"},
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "temperature_merge_outcomes_total",
			Help: "Merge outcomes by kind (created, updated, noop).",
		}, []string{"outcome"}),
		sensors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "temperature_sensors_tracked",
			Help: "Number of sensors with a stored reading.",
		}),
	}

	m.registry.MustRegister(
		m.succeeded,
		m.failed,
		m.outcomes,
		m.sensors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncSucceeded increments the success counter.
func (m *Metrics) IncSucceeded() {
	m.succeeded.Inc()
}

// IncFailed increments the failure counter.
func (m *Metrics) IncFailed() {
	m.failed.Inc()
}

// ObserveOutcome counts one merge outcome.
func (m *Metrics) ObserveOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

// IncSensors records one more tracked sensor. Sensors are never removed.
func (m *Metrics) IncSensors() {
	m.sensors.Inc()
}
