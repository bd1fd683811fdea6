// Package metrics exposes Prometheus instrumentation for the capture and
// reminder loops
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "upright"

// Metrics holds the application's Prometheus metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Samples        *prometheus.CounterVec
	RecordsWritten *prometheus.CounterVec
	WriteFailures  *prometheus.CounterVec
	Flushes        prometheus.Counter
	Reminders      *prometheus.CounterVec
	Strain         *prometheus.GaugeVec
	Degraded       prometheus.Gauge
}

// New registers the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Samples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Posture samples observed by label",
		}, []string{"label"}),

		RecordsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Records appended to the store by kind",
		}, []string{"kind"}),

		WriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_write_failures_total",
			Help:      "Records dropped because the store rejected them",
		}, []string{"kind"}),

		Flushes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushes_total",
			Help:      "Aggregation window flushes",
		}),

		Reminders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_fired_total",
			Help:      "Reminders fired by kind",
		}, []string{"kind"}),

		Strain: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_strain",
			Help:      "Cumulative strain of the open session",
		}, []string{"component"}),

		Degraded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pose_degraded",
			Help:      "1 while pose data is unavailable and motion fallback is used",
		}),
	}
}

func (m *Metrics) ObserveSample(label string) {
	if m == nil {
		return
	}

	m.Samples.WithLabelValues(label).Inc()
}

func (m *Metrics) RecordWritten(kind string) {
	if m == nil {
		return
	}

	m.RecordsWritten.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordFailed(kind string) {
	if m == nil {
		return
	}

	m.WriteFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) Flushed() {
	if m == nil {
		return
	}

	m.Flushes.Inc()
}

func (m *Metrics) ReminderFired(kind string) {
	if m == nil {
		return
	}

	m.Reminders.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetStrain(forwardLean float64, risk int) {
	if m == nil {
		return
	}

	m.Strain.WithLabelValues("forward_lean").Set(forwardLean)
	m.Strain.WithLabelValues("risk").Set(float64(risk))
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}

	v := 0.0
	if degraded {
		v = 1
	}

	m.Degraded.Set(v)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
