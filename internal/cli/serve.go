package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/viant/approvalflow"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/service/escalation"
	"github.com/viant/approvalflow/service/event"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the escalation poller and expose metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString(configFlag)
			app := fx.New(serveOptions(configPath)...)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func serveOptions(configPath string) []fx.Option {
	return []fx.Option{
		fx.Provide(
			func() (*approvalflow.Config, error) { return approvalflow.LoadConfig(configPath) },
			newRegistry,
			newService,
			func(srv *approvalflow.Service) *zap.Logger { return srv.Logger() },
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Invoke(registerEventLog, registerPoller, registerMetricsServer),
	}
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

func newService(lc fx.Lifecycle, cfg *approvalflow.Config, registry *prometheus.Registry) (*approvalflow.Service, error) {
	srv, err := approvalflow.New(context.Background(), approvalflow.WithConfig(cfg), approvalflow.WithRegistry(registry))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
		return srv.Close()
	}})
	return srv, nil
}

func registerEventLog(lc fx.Lifecycle, srv *approvalflow.Service, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			srv.Events().SetListener(ctx, func(e *event.Event[any]) {
				logger.Info("workflow event",
					logging.InstanceID(e.Context.InstanceID),
					logging.Path(e.Context.ContentID),
					zap.String("type", string(e.Context.Type)),
					zap.Any("data", e.Data))
			})
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func registerPoller(lc fx.Lifecycle, srv *approvalflow.Service, cfg *approvalflow.Config, logger *zap.Logger) {
	var stop func()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("escalation poller starting", zap.Duration("interval", cfg.Escalation.PollInterval))
			stop = escalation.Poll(context.Background(), srv.Runtime(), cfg.Escalation.Args, cfg.Escalation.PollInterval, logger)
			return nil
		},
		OnStop: func(context.Context) error {
			if stop != nil {
				stop()
			}
			return nil
		},
	})
}

func registerMetricsServer(lc fx.Lifecycle, cfg *approvalflow.Config, registry *prometheus.Registry, logger *zap.Logger) {
	if cfg.Metrics.Address == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("metrics server starting", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
