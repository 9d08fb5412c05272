package router

import (
	"github.com/viant/approvalflow/metrics"
	"go.uber.org/zap"
)

// Option customises a Router
type Option func(r *Router)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithMetrics sets metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}
