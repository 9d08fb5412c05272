package approvalflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/service/messaging"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "approvalflow.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
escalation:
  thresholdHours: 24
  pollInterval: 15m
decision:
  strict: true
store:
  kind: fs
  basePath: /var/lib/approvalflow/instances
queue:
  vendor: fs
  basePath: /var/lib/approvalflow/queue
logging:
  level: debug
  encoding: console
`), 0o644))
	expandedPath := filepath.Join(dir, "expanded.yaml")
	require.NoError(t, os.WriteFile(expandedPath, []byte(`
store:
  kind: pg
  postgres:
    dsn: ${env.APPROVALFLOW_TEST_DSN}
`), 0o644))

	testCases := []struct {
		description string
		path        string
		env         map[string]string
		expect      func(t *testing.T, cfg *Config)
	}{
		{
			description: "missing file yields defaults",
			path:        filepath.Join(dir, "none.yaml"),
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			description: "yaml file",
			path:        configPath,
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 24, cfg.Escalation.ThresholdHours)
				assert.Equal(t, 15*time.Minute, cfg.Escalation.PollInterval)
				assert.True(t, cfg.Decision.Strict)
				assert.Equal(t, StoreFs, cfg.Store.Kind)
				assert.Equal(t, messaging.VendorFs, cfg.Queue.Vendor)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 3, cfg.Queue.MaxRetries)
			},
		},
		{
			description: "env expressions in file",
			path:        expandedPath,
			env:         map[string]string{"APPROVALFLOW_TEST_DSN": "postgres://localhost/approvals"},
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, StorePostgres, cfg.Store.Kind)
				assert.Equal(t, "postgres://localhost/approvals", cfg.Store.Postgres.DSN)
			},
		},
		{
			description: "environment overrides file",
			path:        configPath,
			env: map[string]string{
				"APPROVALFLOW_THRESHOLD_HOURS": "12",
				"APPROVALFLOW_STORE_KIND":      "redis",
				"APPROVALFLOW_REDIS_ADDRESS":   "localhost:6379",
				"APPROVALFLOW_LOG_LEVEL":       "warn",
			},
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 12, cfg.Escalation.ThresholdHours)
				assert.Equal(t, StoreRedis, cfg.Store.Kind)
				assert.Equal(t, "localhost:6379", cfg.Store.Redis.Address)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig(tc.path)
			require.NoError(t, err)
			tc.expect(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(cfg *Config)
		hasErr      bool
	}{
		{description: "defaults", mutate: func(*Config) {}},
		{description: "negative threshold", mutate: func(cfg *Config) { cfg.Escalation.ThresholdHours = -1 }, hasErr: true},
		{description: "fs store without path", mutate: func(cfg *Config) { cfg.Store.Kind = StoreFs }, hasErr: true},
		{description: "pg store without dsn", mutate: func(cfg *Config) { cfg.Store.Kind = StorePostgres }, hasErr: true},
		{description: "unknown store", mutate: func(cfg *Config) { cfg.Store.Kind = "mongo" }, hasErr: true},
		{description: "unknown queue", mutate: func(cfg *Config) { cfg.Queue.Vendor = "kafka" }, hasErr: true},
		{description: "fs content", mutate: func(cfg *Config) { cfg.Content.Kind = StoreFs; cfg.Content.BasePath = "/tmp/content" }},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.hasErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
