package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// InterceptIndex is the position of the intercept in the coefficient vector.
// The constant column is appended after the features, not prepended.
const InterceptIndex = NumFeatures

// Model is a fitted linear regression. The coefficient vector holds the
// feature weights in column order followed by the intercept.
type Model struct {
	beta *mat.VecDense
}

// Fit solves the normal equations β = (X′ᵀX′)⁻¹X′ᵀy where X′ is x with a
// trailing column of ones. The inverse is computed exactly; a singular or
// non-finite normal matrix fails with a SingularMatrixError.
func Fit(x mat.Matrix, y mat.Vector) (*Model, error) {
	n, p := x.Dims()
	if n == 0 || p == 0 {
		return nil, &PreconditionError{Op: "fit", Message: "empty design matrix"}
	}
	if y.Len() != n {
		return nil, &PreconditionError{
			Op:      "fit",
			Message: fmt.Sprintf("target has %d rows, design matrix has %d", y.Len(), n),
		}
	}

	xa := augment(x)

	var xtx mat.Dense
	xtx.Mul(xa.T(), xa)
	if !allFinite(&xtx) {
		return nil, &SingularMatrixError{
			Condition: math.Inf(1),
			Reason:    "normal matrix has non-finite entries (constant feature column?)",
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, &SingularMatrixError{Condition: float64(cond), Reason: "normal matrix is not invertible"}
		}
		return nil, fmt.Errorf("invert normal matrix: %w", err)
	}

	var xty mat.VecDense
	xty.MulVec(xa.T(), y)

	beta := mat.NewVecDense(p+1, nil)
	beta.MulVec(&inv, &xty)

	return &Model{beta: beta}, nil
}

// NewModel builds a model from known coefficients: the feature weights
// followed by the intercept.
func NewModel(coefficients []float64) *Model {
	beta := make([]float64, len(coefficients))
	copy(beta, coefficients)
	return &Model{beta: mat.NewVecDense(len(beta), beta)}
}

// Coefficients returns a copy of the full coefficient vector, intercept last.
func (m *Model) Coefficients() []float64 {
	out := make([]float64, m.beta.Len())
	for i := range out {
		out[i] = m.beta.AtVec(i)
	}
	return out
}

// Weights returns a copy of the feature weights without the intercept.
func (m *Model) Weights() []float64 {
	all := m.Coefficients()
	return all[:len(all)-1]
}

// Intercept returns the constant term.
func (m *Model) Intercept() float64 {
	return m.beta.AtVec(m.beta.Len() - 1)
}

// Predict evaluates the model on every row of x (without the constant
// column).
func (m *Model) Predict(x mat.Matrix) *mat.VecDense {
	n, p := x.Dims()
	if p+1 != m.beta.Len() {
		panic(&PreconditionError{
			Op:      "predict",
			Message: fmt.Sprintf("model has %d weights, matrix has %d columns", m.beta.Len()-1, p),
		})
	}
	pred := mat.NewVecDense(n, nil)
	pred.MulVec(augment(x), m.beta)
	return pred
}

// augment returns x with a column of ones appended as the last column.
func augment(x mat.Matrix) *mat.Dense {
	n, p := x.Dims()
	xa := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xa.Set(i, j, x.At(i, j))
		}
		xa.Set(i, p, 1)
	}
	return xa
}

// allFinite reports whether every entry of m is a finite number.
func allFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
