package approvalflow

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/viant/approvalflow/internal/envexpr"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/service/dao/instance/redis"
	"github.com/viant/approvalflow/service/escalation"
	"github.com/viant/approvalflow/service/messaging"
	"github.com/viant/approvalflow/tracing"
	"gopkg.in/yaml.v3"
)

// Store kinds
const (
	StoreMemory   = "memory"
	StoreFs       = "fs"
	StoreRedis    = "redis"
	StorePostgres = "pg"
)

// Config is a serialisable representation of the engine configuration. The
// zero-value of nested sections falls back to DefaultConfig on load.
type Config struct {
	Escalation EscalationConfig `json:"escalation" yaml:"escalation"`
	Decision   DecisionConfig   `json:"decision" yaml:"decision"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Content    ContentConfig    `json:"content" yaml:"content"`
	Queue      QueueConfig      `json:"queue" yaml:"queue"`
	Logging    logging.Config   `json:"logging" yaml:"logging"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
	Tracing    tracing.Config   `json:"tracing" yaml:"tracing"`
}

type EscalationConfig struct {
	ThresholdHours int           `json:"thresholdHours" yaml:"thresholdHours"`
	PollInterval   time.Duration `json:"pollInterval" yaml:"pollInterval"`
	// Args is passed to every poll, e.g. THRESHOLD_HOURS:24
	Args string `json:"args,omitempty" yaml:"args,omitempty"`
}

type DecisionConfig struct {
	// Strict rejects decisions other than approve or reject
	Strict bool `json:"strict" yaml:"strict"`
}

type StoreConfig struct {
	Kind     string         `json:"kind" yaml:"kind"`
	BasePath string         `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Redis    redis.Config   `json:"redis,omitempty" yaml:"redis,omitempty"`
	Postgres PostgresConfig `json:"postgres,omitempty" yaml:"postgres,omitempty"`
}

type PostgresConfig struct {
	DSN   string `json:"dsn" yaml:"dsn"`
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
}

// ContentConfig configures the content store annotated on completion. An
// empty Kind disables annotation.
type ContentConfig struct {
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	BasePath  string `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Processor string `json:"processor,omitempty" yaml:"processor,omitempty"`
}

type QueueConfig struct {
	Vendor     messaging.Vendor `json:"vendor" yaml:"vendor"`
	BasePath   string           `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	MaxRetries int              `json:"maxRetries" yaml:"maxRetries"`
}

type MetricsConfig struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Subsystem string `json:"subsystem" yaml:"subsystem"`
	// Address exposes /metrics when serving, disabled when empty
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// DefaultConfig returns a Config populated with the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Escalation: EscalationConfig{
			ThresholdHours: escalation.DefaultThresholdHours,
			PollInterval:   time.Hour,
		},
		Store:   StoreConfig{Kind: StoreMemory},
		Queue:   QueueConfig{Vendor: messaging.VendorMemory, MaxRetries: 3},
		Logging: logging.DefaultConfig(),
		Metrics: MetricsConfig{Namespace: "approvalflow", Subsystem: "workflow"},
		Tracing: tracing.Config{ServiceName: "approvalflow"},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Escalation.ThresholdHours < 0 {
		errs = append(errs, fmt.Errorf("escalation.thresholdHours must be >= 0"))
	}
	if c.Escalation.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("escalation.pollInterval must be > 0"))
	}
	switch c.Store.Kind {
	case StoreMemory:
	case StoreFs:
		if c.Store.BasePath == "" {
			errs = append(errs, fmt.Errorf("store.basePath is required for fs store"))
		}
	case StoreRedis:
		if c.Store.Redis.Address == "" {
			errs = append(errs, fmt.Errorf("store.redis.address is required for redis store"))
		}
	case StorePostgres:
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("store.postgres.dsn is required for pg store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store kind: %q", c.Store.Kind))
	}
	switch c.Content.Kind {
	case "", StoreMemory:
	case StoreFs:
		if c.Content.BasePath == "" {
			errs = append(errs, fmt.Errorf("content.basePath is required for fs content"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported content kind: %q", c.Content.Kind))
	}
	switch c.Queue.Vendor {
	case messaging.VendorMemory:
	case messaging.VendorFs:
		if c.Queue.BasePath == "" {
			errs = append(errs, fmt.Errorf("queue.basePath is required for fs queue"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported queue vendor: %q", c.Queue.Vendor))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a yaml config file. A missing file yields defaults.
// APPROVALFLOW_* environment variables take precedence over the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		} else if err = yaml.Unmarshal([]byte(envexpr.Expand(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %v: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := env("APPROVALFLOW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := env("APPROVALFLOW_LOG_ENCODING"); v != "" {
		cfg.Logging.Encoding = v
	}
	if v := env("APPROVALFLOW_THRESHOLD_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Escalation.ThresholdHours = parsed
		}
	}
	if v := env("APPROVALFLOW_POLL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Escalation.PollInterval = parsed
		}
	}
	if v := env("APPROVALFLOW_DECISION_STRICT"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Decision.Strict = parsed
		}
	}
	if v := env("APPROVALFLOW_STORE_KIND"); v != "" {
		cfg.Store.Kind = v
	}
	if v := env("APPROVALFLOW_STORE_PATH"); v != "" {
		cfg.Store.BasePath = v
	}
	if v := env("APPROVALFLOW_REDIS_ADDRESS"); v != "" {
		cfg.Store.Redis.Address = v
	}
	if v := env("APPROVALFLOW_PG_DSN"); v != "" {
		cfg.Store.Postgres.DSN = v
	}
	if v := env("APPROVALFLOW_CONTENT_PATH"); v != "" {
		cfg.Content.Kind = StoreFs
		cfg.Content.BasePath = v
	}
	if v := env("APPROVALFLOW_QUEUE_VENDOR"); v != "" {
		cfg.Queue.Vendor = messaging.Vendor(v)
	}
	if v := env("APPROVALFLOW_QUEUE_PATH"); v != "" {
		cfg.Queue.BasePath = v
	}
	if v := env("APPROVALFLOW_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
