package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the session counters. Each Server owns its own registry so
// that tests can build servers side by side.
type Metrics struct {
	registry       *prometheus.Registry
	sessionsIssued *prometheus.CounterVec
	loginFailures  *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	rejections     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Subsystem: "session",
			Name:      "issued_total",
			Help:      "Sessions issued after a successful login",
		}, []string{"role"}),
		loginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Subsystem: "session",
			Name:      "login_failures_total",
			Help:      "Rejected login attempts",
		}, []string{"role"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions for protected paths",
		}, []string{"role", "decision"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Subsystem: "guard",
			Name:      "rejections_total",
			Help:      "Session rejections by internal reason",
		}, []string{"role", "reason"}),
	}
	m.registry.MustRegister(m.sessionsIssued, m.loginFailures, m.guardDecisions, m.rejections)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) sessionIssued(role string) {
	if m == nil {
		return
	}
	m.sessionsIssued.WithLabelValues(role).Inc()
}

func (m *Metrics) loginFailed(role string) {
	if m == nil {
		return
	}
	m.loginFailures.WithLabelValues(role).Inc()
}

func (m *Metrics) guardDecision(role string, d Decision) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(role, d.String()).Inc()
}

func (m *Metrics) sessionRejected(role, reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(role, reason).Inc()
}
