package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"salesreg/internal/infrastructure"
	"salesreg/internal/shared/testutil"
)

type httpPoint struct {
	route  string
	status int64
	count  int64
}

func collectHTTP(t *testing.T, reader *sdkmetric.ManualReader) []httpPoint {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var points []httpPoint
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value("route")
				status, _ := dp.Attributes.Value("status")
				points = append(points, httpPoint{route: route.AsString(), status: status.AsInt64(), count: dp.Value})
			}
		}
	}
	return points
}

func TestOTelMiddleware(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := infrastructure.CreatePipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	logger, _ := testutil.NewTestLogger(t)
	mw := NewOTelMiddleware(tp.Tracer("test"), metrics, logger)

	r := chi.NewRouter()
	r.Use(mw.Handler)
	r.Get("/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for _, path := range []string{"/runs/a", "/runs/b", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	points := collectHTTP(t, reader)
	assert.ElementsMatch(t, []httpPoint{
		{route: "/runs/{id}", status: 200, count: 2},
		{route: "/boom", status: 500, count: 1},
	}, points)

	ended := spans.GetSpans()
	require.Len(t, ended, 3)
	assert.Equal(t, "GET /runs/{id}", ended[0].Name)
	assert.Equal(t, codes.Unset, ended[0].Status.Code)
	assert.Equal(t, "GET /boom", ended[2].Name)
	assert.Equal(t, codes.Error, ended[2].Status.Code)
}

func TestOTelMiddleware_NilMetrics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	mw := NewOTelMiddleware(nil, nil, logger)

	w := httptest.NewRecorder()
	mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
}
