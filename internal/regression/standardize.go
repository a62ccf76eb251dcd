package regression

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler holds the per-column population statistics used for z-scoring.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Transform z-scores x with the stored statistics into a new matrix.
// A column with zero standard deviation becomes NaN or ±Inf; it is not
// masked.
func (s *Scaler) Transform(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	if c != len(s.Mean) {
		panic(&PreconditionError{Op: "standardize", Message: "column count does not match fitted scaler"})
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Std[j]
	}, x)
	return out
}

// FitScaler computes the population (divide-by-N) mean and standard
// deviation of every column of x.
func FitScaler(x mat.Matrix) *Scaler {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		panic(&PreconditionError{Op: "standardize", Message: "empty design matrix"})
	}

	s := &Scaler{Mean: make([]float64, c), Std: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(col, nil)
	}
	return s
}

// Standardize returns a new matrix of the same shape where every column is
// replaced by (x - mean) / std using population statistics.
func Standardize(x mat.Matrix) (*mat.Dense, *Scaler) {
	s := FitScaler(x)
	return s.Transform(x), s
}
