// Package metrics exposes booking and auth counters for Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

// Metrics owns its registry so several instances (tests, embedded servers)
// can coexist in one process. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	appointmentsCreated prometheus.Counter
	appointmentsRemoved prometheus.Counter
	transitions         *prometheus.CounterVec
	authRejections      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		appointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotly",
			Name:      "appointments_created_total",
			Help:      "Appointments booked.",
		}),
		appointmentsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotly",
			Name:      "appointments_removed_total",
			Help:      "Appointments hard-deleted.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotly",
			Name:      "appointment_transitions_total",
			Help:      "Successful status transitions by target status.",
		}, []string{"status"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotly",
			Name:      "auth_rejections_total",
			Help:      "Rejected authentication attempts by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.appointmentsCreated,
		m.appointmentsRemoved,
		m.transitions,
		m.authRejections,
	)
	return m
}

func (m *Metrics) AppointmentCreated() {
	if m == nil {
		return
	}
	m.appointmentsCreated.Inc()
}

func (m *Metrics) AppointmentRemoved() {
	if m == nil {
		return
	}
	m.appointmentsRemoved.Inc()
}

func (m *Metrics) Transitioned(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) AuthRejected(reason string) {
	if m == nil {
		return
	}
	m.authRejections.WithLabelValues(reason).Inc()
}

// Registry is exposed for tests that read counter values back.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
