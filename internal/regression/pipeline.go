package regression

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/mat"
)

// TracerName is the instrumentation scope of pipeline spans
const TracerName = "salesreg.regression"

// DefaultPreviewRows is the number of (features, target) pairs kept in a report
const DefaultPreviewRows = 3

// Observation is one row of the extracted dataset.
type Observation struct {
	Features []float64 `json:"features"`
	Target   float64   `json:"target"`
}

// Report is the outcome of a pipeline run.
type Report struct {
	RunID string `json:"run_id,omitempty"`
	Seed  int64  `json:"seed,omitempty"`

	// Sample is the first cleaned and enriched record
	Sample []Field `json:"sample"`
	// Preview holds the first rows of the shuffled dataset before scaling
	Preview []Observation `json:"preview"`

	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Metrics

	RawRows    int                `json:"raw_rows"`
	Rows       int                `json:"rows"`
	Publishers map[string]float64 `json:"publisher_ratings,omitempty"`
	Scaler     *Scaler            `json:"scaler,omitempty"`
	Duration   time.Duration      `json:"duration_ns"`

	// Data is the extracted dataset in shuffled row order, before scaling
	Data        *Dataset  `json:"-"`
	Predictions []float64 `json:"-"`
	Targets     []float64 `json:"-"`
}

// Pipeline runs cleaning, enrichment, shuffling, extraction, scaling,
// fitting and evaluation in sequence.
type Pipeline struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	rng         *rand.Rand
	previewRows int
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets the tracer used for stage spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithRand sets the random source of the row shuffle
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithPreviewRows sets how many extracted rows the report keeps
func WithPreviewRows(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.previewRows = n
		}
	}
}

// NewPipeline creates a pipeline. Without WithRand the shuffle uses a
// non-deterministic source.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:      slog.Default(),
		tracer:      otel.Tracer(TracerName),
		previewRows: DefaultPreviewRows,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = NewRand(0)
	}
	return p
}

// Run executes the full pipeline over raw records. The first error aborts
// the run and no report is returned.
func (p *Pipeline) Run(ctx context.Context, raw []RawRecord) (*Report, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "regression.run",
		trace.WithAttributes(attribute.Int("records.raw", len(raw))))
	defer span.End()

	report, err := p.run(ctx, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(ctx, "regression run failed", "error", err)
		return nil, err
	}

	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("records.used", report.Rows),
		attribute.Float64("metrics.mse", report.MSE),
		attribute.Float64("metrics.mae", report.MAE),
	)
	p.logger.InfoContext(ctx, "regression run completed",
		"rows", report.Rows,
		"mse", report.MSE,
		"mae", report.MAE,
		"r2", report.R2,
		"duration", report.Duration,
	)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, raw []RawRecord) (*Report, error) {
	report := &Report{RawRows: len(raw), FeatureNames: featureNames()}

	// clean
	_, span := p.tracer.Start(ctx, "regression.clean")
	cleaned := Clean(raw)
	span.SetAttributes(attribute.Int("records.kept", len(cleaned)))
	span.End()
	p.logger.InfoContext(ctx, "records cleaned",
		"raw", len(raw),
		"kept", len(cleaned),
		"dropped", len(raw)-len(cleaned),
	)
	if len(cleaned) == 0 {
		return nil, &PreconditionError{Op: "clean", Message: "no records survived cleaning"}
	}

	// enrich
	_, span = p.tracer.Start(ctx, "regression.enrich")
	enriched, ratings, err := EnrichPublisherRatings(cleaned)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	report.Publishers = ratings
	report.Sample = enriched[0].Fields()
	p.logger.DebugContext(ctx, "publisher ratings computed", "publishers", len(ratings))

	// shuffle to break the incoming sales-rank order
	shuffled := Shuffle(enriched, p.rng)

	// extract
	_, span = p.tracer.Start(ctx, "regression.extract")
	ds, err := Extract(shuffled)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	report.Data = ds
	report.Rows = ds.Rows()
	for i := 0; i < p.previewRows && i < ds.Rows(); i++ {
		features, target := ds.Row(i)
		report.Preview = append(report.Preview, Observation{Features: features, Target: target})
	}

	// standardize
	_, span = p.tracer.Start(ctx, "regression.standardize")
	xs, scaler := Standardize(ds.X)
	span.End()
	report.Scaler = scaler

	// fit
	_, span = p.tracer.Start(ctx, "regression.fit")
	model, err := Fit(xs, ds.Y)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	report.Coefficients = model.Weights()
	report.Intercept = model.Intercept()

	// evaluate
	_, span = p.tracer.Start(ctx, "regression.evaluate")
	pred := model.Predict(xs)
	report.Predictions = vecToSlice(pred)
	report.Targets = vecToSlice(ds.Y)
	report.Metrics = Evaluate(report.Predictions, report.Targets)
	span.End()

	return report, nil
}

// endSpan closes a stage span, marking it failed when err is set.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func featureNames() []string {
	names := make([]string, 0, NumFeatures)
	for _, c := range FeatureColumns() {
		names = append(names, c.Header())
	}
	return names
}

func vecToSlice(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
