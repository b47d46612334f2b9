package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	Invocations       *prometheus.CounterVec
	InvocationLogFail prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_invocations_total",
			Help: "Webhook and function invocations by category and status code",
		}, []string{"category", "status"}),
		InvocationLogFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_invocation_log_failures_total",
			Help: "Invocation records that could not be persisted",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Invocations,
		m.InvocationLogFail,
	)
	return m
}

func (m *Metrics) ObserveInvocation(category string, status int) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(category, strconv.Itoa(status)).Inc()
}

func (m *Metrics) IncInvocationLogFailure() {
	if m == nil {
		return
	}
	m.InvocationLogFail.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
