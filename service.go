package approvalflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/afs/url"
	"github.com/viant/approvalflow/extension"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/metrics"
	"github.com/viant/approvalflow/model/types"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/action/approval"
	"github.com/viant/approvalflow/service/asset"
	"github.com/viant/approvalflow/service/completion"
	"github.com/viant/approvalflow/service/content"
	cfs "github.com/viant/approvalflow/service/content/fs"
	cmemory "github.com/viant/approvalflow/service/content/memory"
	"github.com/viant/approvalflow/service/dao"
	ifs "github.com/viant/approvalflow/service/dao/instance/fs"
	imemory "github.com/viant/approvalflow/service/dao/instance/memory"
	"github.com/viant/approvalflow/service/dao/instance/pg"
	"github.com/viant/approvalflow/service/dao/instance/redis"
	"github.com/viant/approvalflow/service/decision"
	"github.com/viant/approvalflow/service/escalation"
	"github.com/viant/approvalflow/service/event"
	"github.com/viant/approvalflow/service/executor"
	"github.com/viant/approvalflow/service/messaging/fs"
	"github.com/viant/approvalflow/service/router"
	"github.com/viant/approvalflow/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Service wires the approval engine components
type Service struct {
	config            *Config
	logger            *zap.Logger
	metrics           *metrics.Metrics
	registry          prometheus.Registerer
	store             dao.Service[string, instance.Instance]
	content           content.Store
	events            *event.Service
	actions           *extension.Actions
	executor          executor.Service
	executorOptions   []executor.Option
	extensionServices []types.Service
	exporter          sdktrace.SpanExporter
	exporterName      string
	exporterVersion   string
	runtime           *Runtime
	closers           []func() error
}

func (s *Service) init(ctx context.Context) error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		logger, err := logging.New(s.config.Logging)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if err := s.initTracing(); err != nil {
		return err
	}
	if s.metrics == nil {
		if s.registry != nil {
			s.metrics = metrics.New(metrics.Config{Namespace: s.config.Metrics.Namespace, Subsystem: s.config.Metrics.Subsystem, Registry: s.registry})
		} else {
			s.metrics = metrics.Nop()
		}
	}
	if err := s.ensureBaseSetup(ctx); err != nil {
		return err
	}

	approvalService := approval.New(
		router.New(router.WithLogger(s.logger), router.WithMetrics(s.metrics)),
		decision.New(decision.WithLogger(s.logger), decision.WithMetrics(s.metrics), decision.WithStrict(s.config.Decision.Strict)),
		escalation.New(escalation.WithLogger(s.logger), escalation.WithMetrics(s.metrics), escalation.WithDefaultThreshold(s.config.Escalation.ThresholdHours)),
		completion.New(completion.WithLogger(s.logger), completion.WithMetrics(s.metrics)),
	)
	s.actions = extension.NewActions(approvalService)
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
	executorOptions := append([]executor.Option{
		executor.WithListener(executor.ZapListener(s.logger)),
		executor.WithMetrics(s.metrics),
	}, s.executorOptions...)
	s.executor = executor.NewService(s.actions, executorOptions...)

	s.runtime = &Runtime{
		store:    s.store,
		executor: s.executor,
		events:   s.events,
		logger:   s.logger,
	}
	if s.content != nil {
		s.runtime.annotator = asset.New(s.content, asset.WithLogger(s.logger), asset.WithProcessor(s.config.Content.Processor))
	}
	return nil
}

func (s *Service) initTracing() error {
	var shutdown tracing.Shutdown
	var err error
	if s.exporter != nil {
		shutdown, err = tracing.InitWithExporter(s.exporterName, s.exporterVersion, s.exporter)
	} else {
		shutdown, err = tracing.Init(s.config.Tracing)
	}
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	s.closers = append(s.closers, func() error { return shutdown(context.Background()) })
	return nil
}

func (s *Service) ensureBaseSetup(ctx context.Context) error {
	cfg := s.config
	if s.store == nil {
		switch cfg.Store.Kind {
		case StoreFs:
			store, err := ifs.New(cfg.Store.BasePath, s.logger)
			if err != nil {
				return err
			}
			s.store = store
		case StoreRedis:
			store, err := redis.NewFromConfig(ctx, &cfg.Store.Redis)
			if err != nil {
				return err
			}
			s.store = store
			s.closers = append(s.closers, store.Close)
		case StorePostgres:
			store, err := pg.New(ctx, cfg.Store.Postgres.DSN, cfg.Store.Postgres.Table)
			if err != nil {
				return err
			}
			s.store = store
			s.closers = append(s.closers, store.Close)
		default:
			s.store = imemory.New()
		}
	}
	if s.content == nil {
		switch cfg.Content.Kind {
		case StoreMemory:
			s.content = cmemory.New()
		case StoreFs:
			store, err := cfs.New(cfg.Content.BasePath)
			if err != nil {
				return err
			}
			s.content = store
		}
	}
	if s.events == nil {
		events, err := event.New(cfg.Queue.Vendor,
			event.WithLogger(s.logger),
			event.WithFsQueueConfig(func(name string) fs.QueueConfig {
				return fs.QueueConfig{BasePath: url.Join(cfg.Queue.BasePath, name), MaxRetries: cfg.Queue.MaxRetries}
			}))
		if err != nil {
			return err
		}
		s.events = events
		s.closers = append(s.closers, func() error { events.Close(); return nil })
	}
	return nil
}

// RegisterExtensionServices registers additional action services
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// Runtime returns the workflow runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Logger returns the engine logger
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Events returns the event service
func (s *Service) Events() *event.Service {
	return s.events
}

// Executor returns the action executor
func (s *Service) Executor() executor.Service {
	return s.executor
}

// Close releases stores, listeners and the tracing provider
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	_ = s.logger.Sync()
	return errors.Join(errs...)
}

// New creates the approval engine
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		ret.release()
		return nil, err
	}
	return ret, nil
}

func (s *Service) release() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
	s.closers = nil
}
