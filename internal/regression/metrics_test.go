package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	tests := []struct {
		name        string
		predictions []float64
		targets     []float64
		mse, mae    float64
	}{
		{
			name:        "constant offset",
			predictions: []float64{1.5, 2.5, 3.5},
			targets:     []float64{1, 2, 3},
			mse:         0.25,
			mae:         0.5,
		},
		{
			name:        "perfect",
			predictions: []float64{4, 5},
			targets:     []float64{4, 5},
			mse:         0,
			mae:         0,
		},
		{
			name:        "mixed signs",
			predictions: []float64{0, 4},
			targets:     []float64{2, 2},
			mse:         4,
			mae:         2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mse, MSE(tt.predictions, tt.targets))
			assert.Equal(t, tt.mae, MAE(tt.predictions, tt.targets))
			assert.Equal(t, math.Sqrt(tt.mse), RMSE(tt.predictions, tt.targets))
		})
	}
}

func TestR2(t *testing.T) {
	assert.Equal(t, 1.0, R2([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, R2([]float64{2, 2, 2}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, R2([]float64{1, 2, 3}, []float64{5, 5, 5}), "constant target")
}

func TestEvaluate(t *testing.T) {
	m := Evaluate([]float64{1.5, 2.5, 3.5}, []float64{1, 2, 3})
	assert.Equal(t, 0.25, m.MSE)
	assert.Equal(t, 0.5, m.MAE)
	assert.Equal(t, 0.5, m.RMSE)
	assert.InDelta(t, 0.625, m.R2, 1e-12)
}

func TestMetricsMisaligned(t *testing.T) {
	funcs := map[string]func(a, b []float64) float64{
		"mse": MSE,
		"mae": MAE,
		"r2":  R2,
	}
	for name, fn := range funcs {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, func() { fn([]float64{1, 2}, []float64{1}) })
			assert.Panics(t, func() { fn(nil, nil) })
		})
	}
}
