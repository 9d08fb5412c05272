package escalation

import (
	"github.com/viant/approvalflow/metrics"
	"go.uber.org/zap"
)

// Option customises a Monitor
type Option func(m *Monitor)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithMetrics sets metrics collectors
func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.metrics = metrics
	}
}

// WithDefaultThreshold sets the threshold used when none is supplied
func WithDefaultThreshold(hours int) Option {
	return func(m *Monitor) {
		m.defaultHours = hours
	}
}
