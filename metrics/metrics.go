// Package metrics exposes prometheus collectors for workflow step outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config represents metrics registration settings
type Config struct {
	Namespace string                `json:"namespace" yaml:"namespace"`
	Subsystem string                `json:"subsystem" yaml:"subsystem"`
	Registry  prometheus.Registerer `json:"-" yaml:"-"`
}

// DefaultConfig returns the default metric naming
func DefaultConfig() Config {
	return Config{Namespace: "approvalflow", Subsystem: "workflow"}
}

// Metrics holds workflow collectors
type Metrics struct {
	routes       *prometheus.CounterVec
	decisions    *prometheus.CounterVec
	escalations  *prometheus.CounterVec
	completions  *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	stepErrors   *prometheus.CounterVec
}

// New registers collectors with cfg.Registry, prometheus.DefaultRegisterer when nil
func New(cfg Config) *Metrics {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)
	return &Metrics{
		routes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "routes_total",
			Help:      "Number of approver group assignments by group",
		}, []string{"group"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "decisions_total",
			Help:      "Number of recorded decisions by route",
		}, []string{"route"}),
		escalations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "escalations_total",
			Help:      "Number of escalations by target",
		}, []string{"target"}),
		completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "completions_total",
			Help:      "Number of finalized workflows by outcome",
		}, []string{"outcome"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "step_duration_seconds",
			Help:      "Workflow step processing duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
		stepErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "step_errors_total",
			Help:      "Number of failed workflow steps",
		}, []string{"step"}),
	}
}

// Nop returns metrics bound to a private registry
func Nop() *Metrics {
	cfg := DefaultConfig()
	cfg.Registry = prometheus.NewRegistry()
	return New(cfg)
}

// ObserveRoute counts an approver assignment
func (m *Metrics) ObserveRoute(group string) {
	if m == nil {
		return
	}
	m.routes.WithLabelValues(group).Inc()
}

// ObserveDecision counts a recorded decision
func (m *Metrics) ObserveDecision(route string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(route).Inc()
}

// ObserveEscalation counts an escalation
func (m *Metrics) ObserveEscalation(target string) {
	if m == nil {
		return
	}
	m.escalations.WithLabelValues(target).Inc()
}

// ObserveCompletion counts a finalized workflow
func (m *Metrics) ObserveCompletion(outcome string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(outcome).Inc()
}

// ObserveStep records step duration and failure
func (m *Metrics) ObserveStep(step string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(step).Observe(time.Since(started).Seconds())
	if err != nil {
		m.stepErrors.WithLabelValues(step).Inc()
	}
}
