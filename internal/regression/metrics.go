package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metrics summarises the fit of predictions against targets.
type Metrics struct {
	MSE  float64 `json:"mse"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Evaluate computes all error metrics. Lengths must match and be non-zero.
func Evaluate(predictions, targets []float64) Metrics {
	mse := MSE(predictions, targets)
	return Metrics{
		MSE:  mse,
		MAE:  MAE(predictions, targets),
		RMSE: math.Sqrt(mse),
		R2:   R2(predictions, targets),
	}
}

// MSE returns the mean of the squared differences.
func MSE(predictions, targets []float64) float64 {
	mustAlign("mse", predictions, targets)
	s := 0.0
	for i := range predictions {
		d := predictions[i] - targets[i]
		s += d * d
	}
	return s / float64(len(predictions))
}

// MAE returns the mean of the absolute differences.
func MAE(predictions, targets []float64) float64 {
	mustAlign("mae", predictions, targets)
	s := 0.0
	for i := range predictions {
		s += math.Abs(predictions[i] - targets[i])
	}
	return s / float64(len(predictions))
}

// RMSE returns the square root of MSE.
func RMSE(predictions, targets []float64) float64 {
	return math.Sqrt(MSE(predictions, targets))
}

// R2 returns the coefficient of determination. A constant target gives 0.
func R2(predictions, targets []float64) float64 {
	mustAlign("r2", predictions, targets)
	mean := stat.Mean(targets, nil)
	ssTot, ssRes := 0.0, 0.0
	for i := range targets {
		d := targets[i] - mean
		ssTot += d * d
		r := targets[i] - predictions[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// mustAlign panics when the vectors cannot be compared element-wise.
func mustAlign(op string, predictions, targets []float64) {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		panic(&PreconditionError{
			Op:      op,
			Message: fmt.Sprintf("need equal non-zero lengths, got %d predictions and %d targets", len(predictions), len(targets)),
		})
	}
}
