package services

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"salesreg/internal/dataset"
	apierrors "salesreg/internal/errors"
	"salesreg/internal/infrastructure"
	"salesreg/internal/regression"
	"salesreg/internal/store"
)

// Run sources recorded in metrics and run history
const (
	SourceCLI  = "cli"
	SourceHTTP = "http"
)

// Run lifecycle events published to live subscribers
const (
	EventRunStarted   = "run:started"
	EventRunCompleted = "run:completed"
	EventRunFailed    = "run:failed"
)

// EventPublisher fans run lifecycle events out to live subscribers.
// Publish must not block the run.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, runID string, data interface{})
}

// RunStore persists completed runs
type RunStore interface {
	Save(ctx context.Context, run *store.Run) error
	Get(ctx context.Context, id string) (*store.Run, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

// RunRequest describes one regression run over an in-memory dataset
type RunRequest struct {
	Source      string // SourceCLI or SourceHTTP
	Name        string // file name, used for format detection and history
	ContentType string
	Data        []byte
	// Seed of the row shuffle; 0 falls back to the service default
	Seed int64
}

// RegressionService reads datasets, runs the regression pipeline and
// records the outcome in metrics and run history.
type RegressionService struct {
	store       RunStore
	metrics     *infrastructure.PipelineMetrics
	tracer      trace.Tracer
	logger      *slog.Logger
	seed        int64
	previewRows int
	slots       *semaphore.Weighted
	events      EventPublisher
}

// ServiceOption configures a RegressionService
type ServiceOption func(*RegressionService)

// WithEvents publishes run lifecycle events
func WithEvents(p EventPublisher) ServiceOption {
	return func(rs *RegressionService) { rs.events = p }
}

// WithStore enables run history
func WithStore(s RunStore) ServiceOption {
	return func(rs *RegressionService) { rs.store = s }
}

// WithMetrics records run outcomes on m
func WithMetrics(m *infrastructure.PipelineMetrics) ServiceOption {
	return func(rs *RegressionService) { rs.metrics = m }
}

// WithTracer sets the tracer handed to every pipeline
func WithTracer(t trace.Tracer) ServiceOption {
	return func(rs *RegressionService) { rs.tracer = t }
}

// WithDefaultSeed sets the seed used when a request carries none
func WithDefaultSeed(seed int64) ServiceOption {
	return func(rs *RegressionService) { rs.seed = seed }
}

// WithPreviewRows sets how many observations each report keeps
func WithPreviewRows(n int) ServiceOption {
	return func(rs *RegressionService) { rs.previewRows = n }
}

// WithMaxConcurrentRuns bounds the number of pipelines running at once
func WithMaxConcurrentRuns(n int) ServiceOption {
	return func(rs *RegressionService) {
		if n > 0 {
			rs.slots = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewRegressionService creates a new regression service
func NewRegressionService(logger *slog.Logger, opts ...ServiceOption) *RegressionService {
	if logger == nil {
		logger = slog.Default()
	}
	rs := &RegressionService{
		logger:      infrastructure.WithComponent(logger, "regression_service"),
		previewRows: regression.DefaultPreviewRows,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// FitFile runs the pipeline over a CSV or XLSX file on disk
func (rs *RegressionService) FitFile(ctx context.Context, path string, seed int64) (*regression.Report, error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	raw, err := dataset.ReadFile(path)
	if err != nil {
		rs.recordFailure(ctx, SourceCLI, start, err)
		return nil, err
	}
	return rs.run(ctx, SourceCLI, path, raw, seed, start)
}

// Fit runs the pipeline over an uploaded dataset
func (rs *RegressionService) Fit(ctx context.Context, req RunRequest) (*regression.Report, error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	source := req.Source
	if source == "" {
		source = SourceHTTP
	}

	format, err := dataset.DetectFormat(req.Name, req.ContentType)
	if err != nil {
		rs.recordFailure(ctx, source, start, err)
		return nil, err
	}
	raw, err := dataset.ReadBytes(req.Data, format)
	if err != nil {
		rs.recordFailure(ctx, source, start, err)
		return nil, err
	}
	return rs.run(ctx, source, req.Name, raw, req.Seed, start)
}

func (rs *RegressionService) run(ctx context.Context, source, name string, raw []regression.RawRecord, seed int64, start time.Time) (*regression.Report, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)

	if rs.slots != nil {
		if err := rs.slots.Acquire(ctx, 1); err != nil {
			rs.recordFailure(ctx, source, start, err)
			return nil, err
		}
		defer rs.slots.Release(1)
	}

	seed = rs.resolveSeed(seed)
	logger := rs.logger.With(
		slog.String("run_id", runID),
		slog.String("source", source),
		slog.Int64("seed", seed),
	)
	logger.InfoContext(ctx, "regression run started",
		slog.String("input", name),
		slog.Int("records", len(raw)))
	rs.publish(ctx, EventRunStarted, runID, map[string]interface{}{
		"source":  source,
		"input":   name,
		"seed":    seed,
		"records": len(raw),
	})

	opts := []regression.Option{
		regression.WithLogger(logger),
		regression.WithRand(regression.NewRand(seed)),
		regression.WithPreviewRows(rs.previewRows),
	}
	if rs.tracer != nil {
		opts = append(opts, regression.WithTracer(rs.tracer))
	}

	report, err := regression.NewPipeline(opts...).Run(ctx, raw)
	if err != nil {
		rs.recordFailure(ctx, source, start, err)
		return nil, err
	}
	report.RunID = runID
	report.Seed = seed

	infrastructure.RecordRun(ctx, rs.metrics, infrastructure.RunOutcome{
		Source:   source,
		RawRows:  report.RawRows,
		Rows:     report.Rows,
		MSE:      report.MSE,
		MAE:      report.MAE,
		Duration: time.Since(start),
	})
	rs.publish(ctx, EventRunCompleted, runID, map[string]interface{}{
		"source":      source,
		"raw_rows":    report.RawRows,
		"rows":        report.Rows,
		"mse":         report.MSE,
		"mae":         report.MAE,
		"r2":          report.R2,
		"duration_ms": report.Duration.Milliseconds(),
	})

	if rs.store != nil {
		run := &store.Run{
			ID:        runID,
			CreatedAt: time.Now().UTC(),
			Source:    name,
			Seed:      seed,
			Report:    report,
		}
		if err := rs.store.Save(ctx, run); err != nil {
			// the run itself succeeded; history is best effort
			logger.WarnContext(ctx, "failed to store run", slog.String("error", err.Error()))
		}
	}
	return report, nil
}

// GetRun returns a stored run
func (rs *RegressionService) GetRun(ctx context.Context, id string) (*store.Run, error) {
	if rs.store == nil {
		return nil, apierrors.NewAppError(apierrors.ErrTypeNotFound, "run not found", ErrHistoryDisabled)
	}
	return rs.store.Get(ctx, id)
}

// ListRuns returns the most recent stored runs
func (rs *RegressionService) ListRuns(ctx context.Context, limit int) ([]store.Summary, error) {
	if rs.store == nil {
		return []store.Summary{}, nil
	}
	return rs.store.List(ctx, limit)
}

// HistoryEnabled reports whether runs are persisted
func (rs *RegressionService) HistoryEnabled() bool {
	return rs.store != nil
}

// resolveSeed picks the request seed, then the service default, then a
// fresh random seed so every stored run can be replayed.
func (rs *RegressionService) resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	if rs.seed != 0 {
		return rs.seed
	}
	for seed == 0 {
		seed = rand.Int63()
	}
	return seed
}

func (rs *RegressionService) recordFailure(ctx context.Context, source string, start time.Time, err error) {
	class := apierrors.Classify(err)
	rs.logger.WarnContext(ctx, "regression run failed",
		slog.String("source", source),
		slog.String("error_type", class),
		slog.String("error", err.Error()))
	infrastructure.RecordRun(ctx, rs.metrics, infrastructure.RunOutcome{
		Source:    source,
		Duration:  time.Since(start),
		ErrorType: class,
	})
	rs.publish(ctx, EventRunFailed, infrastructure.GetTraceID(ctx), map[string]interface{}{
		"source":     source,
		"error_type": class,
		"error":      err.Error(),
	})
}

func (rs *RegressionService) publish(ctx context.Context, eventType, runID string, data map[string]interface{}) {
	if rs.events != nil {
		rs.events.Publish(ctx, eventType, runID, data)
	}
}
