package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreg/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelDisabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "test",
		TraceExporter:  "none",
		MetricExporter: "none",
	}, discardLogger())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.Nil(t, providers.Registry)

	err = providers.WriteMetricsFile(filepath.Join(t.TempDir(), "m.prom"))
	assert.Error(t, err)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelUnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger", MetricExporter: "none"}, discardLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "statsd"}, discardLogger())
	assert.Error(t, err)
}

func TestStdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewOTelConfig(config.TelemetryConfig{ServiceName: "test", Tracing: "stdout", Metrics: "none"})
	cfg.TraceWriter = &buf

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "test-operation")
}

func TestPipelineMetricsExport(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordRun(ctx, metrics, RunOutcome{
		Source:   "cli",
		RawRows:  12,
		Rows:     10,
		MSE:      1.5,
		MAE:      0.75,
		Duration: 20 * time.Millisecond,
	})
	RecordRun(ctx, metrics, RunOutcome{Source: "http", ErrorType: "singular_matrix"})
	RecordHTTPRequest(ctx, metrics, http.MethodPost, "/api/v1/regressions", http.StatusOK)
	RecordRun(ctx, nil, RunOutcome{})

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, name := range []string{
		"regression_runs",
		"regression_run_errors",
		"regression_run_duration",
		"regression_rows_used",
		"regression_rows_dropped",
		"regression_last_mse",
		"http_requests",
		"singular_matrix",
	} {
		assert.Contains(t, body, name)
	}

	path := filepath.Join(t.TempDir(), "salesreg.prom")
	require.NoError(t, providers.WriteMetricsFile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "regression_runs")
}
