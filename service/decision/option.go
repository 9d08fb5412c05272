package decision

import (
	"github.com/viant/approvalflow/metrics"
	"go.uber.org/zap"
)

// Option customises a Recorder
type Option func(r *Recorder)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithMetrics sets metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// WithStrict rejects decision values other than approve or reject
func WithStrict(strict bool) Option {
	return func(r *Recorder) {
		r.strict = strict
	}
}
