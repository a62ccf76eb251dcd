package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesreg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, int64(0), cfg.Pipeline.Seed)
	assert.Equal(t, 3, cfg.Pipeline.PreviewRows)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrentRuns)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, "none", cfg.Telemetry.Tracing)
	assert.Equal(t, "prometheus", cfg.Telemetry.Metrics)
	assert.Equal(t, DefaultStoreFile, cfg.Store.File)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "file overrides defaults",
			file: `
logging:
  level: debug
pipeline:
  seed: 42
  preview_rows: 5
server:
  addr: ":9090"
  read_timeout: 5s
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, int64(42), cfg.Pipeline.Seed)
				assert.Equal(t, 5, cfg.Pipeline.PreviewRows)
				assert.Equal(t, ":9090", cfg.Server.Addr)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				// untouched keys keep their defaults
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name: "env overrides file",
			file: `
pipeline:
  seed: 42
server:
  rate_limit:
    rps: 1
`,
			env: map[string]string{
				"SALESREG_PIPELINE_SEED":         "7",
				"SALESREG_SERVER_RATE_LIMIT_RPS": "2.5",
				"SALESREG_TELEMETRY_TRACING":     "stdout",
				"SALESREG_STORE_FILE":            "",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, int64(7), cfg.Pipeline.Seed)
				assert.Equal(t, 2.5, cfg.Server.RateLimit.RPS)
				assert.Equal(t, "stdout", cfg.Telemetry.Tracing)
				assert.Empty(t, cfg.Store.File)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"SALESREG_LOGGING_LEVEL": "verbose"},
			wantErr: true,
		},
		{
			name:    "negative preview rows",
			file:    "pipeline:\n  preview_rows: -1\n",
			wantErr: true,
		},
		{
			name:    "unknown key",
			file:    "pipeline:\n  shuffle: false\n",
			wantErr: true,
		},
		{
			name:    "malformed duration",
			env:     map[string]string{"SALESREG_SERVER_READ_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "file logging without path",
			file:    "logging:\n  output: file\n  file_path: \"\"\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSearchesDefaultLocations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "salesreg.yaml"), []byte("pipeline:\n  seed: 11\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(11), cfg.Pipeline.Seed)
}
