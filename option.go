package approvalflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/approvalflow/metrics"
	"github.com/viant/approvalflow/model/types"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/content"
	"github.com/viant/approvalflow/service/dao"
	"github.com/viant/approvalflow/service/event"
	"github.com/viant/approvalflow/service/executor"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Option customises the Service
type Option func(s *Service)

// WithConfig sets the engine configuration
func WithConfig(cfg *Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the logger, otherwise one is built from Config.Logging
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRegistry registers metrics collectors with registry
func WithRegistry(registry prometheus.Registerer) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithInstanceDAO sets the instance store, otherwise one is built from Config.Store
func WithInstanceDAO(store dao.Service[string, instance.Instance]) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithContentStore sets the content store annotated on completion
func WithContentStore(store content.Store) Option {
	return func(s *Service) {
		s.content = store
	}
}

// WithEventService sets the event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithExtensionServices registers additional action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = append(s.extensionServices, services...)
	}
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.NewService
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.exporter = exporter
		s.exporterName = serviceName
		s.exporterVersion = serviceVersion
	}
}
