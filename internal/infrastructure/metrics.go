package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments of regression runs
type PipelineMetrics struct {
	RunsTotal    metric.Int64Counter
	RunErrors    metric.Int64Counter
	RunDuration  metric.Float64Histogram
	RowsUsed     metric.Int64Counter
	RowsDropped  metric.Int64Counter
	LastMSE      metric.Float64Gauge
	LastMAE      metric.Float64Gauge
	HTTPRequests metric.Int64Counter
}

// RunOutcome summarises one run for metric recording
type RunOutcome struct {
	Source    string // "cli" or "http"
	RawRows   int
	Rows      int
	MSE       float64
	MAE       float64
	Duration  time.Duration
	ErrorType string // empty on success
}

// CreatePipelineMetrics registers the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"regression_runs",
		metric.WithDescription("Total number of regression runs"),
	)
	if err != nil {
		return nil, err
	}

	runErrors, err := meter.Int64Counter(
		"regression_run_errors",
		metric.WithDescription("Total number of failed regression runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"regression_run_duration",
		metric.WithDescription("Regression run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsUsed, err := meter.Int64Counter(
		"regression_rows_used",
		metric.WithDescription("Rows that survived cleaning and were fitted"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"regression_rows_dropped",
		metric.WithDescription("Rows removed by cleaning"),
	)
	if err != nil {
		return nil, err
	}

	lastMSE, err := meter.Float64Gauge(
		"regression_last_mse",
		metric.WithDescription("Mean squared error of the latest successful run"),
	)
	if err != nil {
		return nil, err
	}

	lastMAE, err := meter.Float64Gauge(
		"regression_last_mae",
		metric.WithDescription("Mean absolute error of the latest successful run"),
	)
	if err != nil {
		return nil, err
	}

	httpRequests, err := meter.Int64Counter(
		"http_requests",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:    runsTotal,
		RunErrors:    runErrors,
		RunDuration:  runDuration,
		RowsUsed:     rowsUsed,
		RowsDropped:  rowsDropped,
		LastMSE:      lastMSE,
		LastMAE:      lastMAE,
		HTTPRequests: httpRequests,
	}, nil
}

// RecordRun records the outcome of a regression run
func RecordRun(ctx context.Context, m *PipelineMetrics, out RunOutcome) {
	if m == nil {
		return
	}

	status := "success"
	if out.ErrorType != "" {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("source", out.Source),
		attribute.String("status", status),
	)

	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, out.Duration.Seconds(), attrs)

	if out.ErrorType != "" {
		m.RunErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", out.Source),
			attribute.String("error_type", out.ErrorType),
		))
		return
	}

	source := metric.WithAttributes(attribute.String("source", out.Source))
	m.RowsUsed.Add(ctx, int64(out.Rows), source)
	if dropped := out.RawRows - out.Rows; dropped > 0 {
		m.RowsDropped.Add(ctx, int64(dropped), source)
	}
	m.LastMSE.Record(ctx, out.MSE, source)
	m.LastMAE.Record(ctx, out.MAE, source)
}

// RecordHTTPRequest counts a served HTTP request
func RecordHTTPRequest(ctx context.Context, m *PipelineMetrics, method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}
