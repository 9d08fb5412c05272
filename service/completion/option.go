package completion

import (
	"github.com/viant/approvalflow/metrics"
	"go.uber.org/zap"
)

// Option customises a Finalizer
type Option func(f *Finalizer)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(f *Finalizer) {
		f.logger = logger
	}
}

// WithMetrics sets metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Finalizer) {
		f.metrics = m
	}
}
