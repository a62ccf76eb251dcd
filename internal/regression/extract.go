package regression

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Dataset is the numeric projection of the enriched records: an N×5 design
// matrix in FeatureColumn order and the row-aligned target vector.
type Dataset struct {
	X *mat.Dense
	Y *mat.VecDense
}

// Rows returns the number of observations
func (d *Dataset) Rows() int {
	r, _ := d.X.Dims()
	return r
}

// Row returns a copy of the features and the target of observation i.
func (d *Dataset) Row(i int) ([]float64, float64) {
	return mat.Row(nil, i, d.X), d.Y.AtVec(i)
}

// Extract parses the feature columns and the target of every record. Any
// unparseable value fails the whole extraction. Records must have been
// enriched with publisher ratings first.
func Extract(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, &PreconditionError{Op: "extract", Message: "no records to extract"}
	}

	n := len(records)
	x := mat.NewDense(n, NumFeatures, nil)
	y := mat.NewVecDense(n, nil)

	for i, rec := range records {
		for _, col := range FeatureColumns() {
			v, err := parseField(rec, i, col.Header())
			if err != nil {
				return nil, err
			}
			x.Set(i, int(col), v)
		}

		target, err := parseField(rec, i, TargetField)
		if err != nil {
			return nil, err
		}
		y.SetVec(i, target)
	}

	return &Dataset{X: x, Y: y}, nil
}

// parseField reads one numeric column of a record.
func parseField(rec Record, index int, field string) (float64, error) {
	raw, _ := rec.Value(field)
	v, err := parseNumber(raw)
	if err != nil {
		return 0, &ParseError{
			Field:     field,
			Row:       index,
			SourceRow: rec.Row,
			Value:     raw,
			Err:       err,
		}
	}
	return v, nil
}

// ErrNotDecimal is wrapped in a ParseError when strconv accepts a value that
// is not a finite decimal number.
var ErrNotDecimal = errors.New("not a finite decimal number")

// parseNumber parses a decimal float. Hex floats, NaN and infinities are
// rejected even though strconv.ParseFloat accepts them.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	digits := strings.TrimLeft(s, "+-")
	if math.IsNaN(v) || math.IsInf(v, 0) ||
		strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: ErrNotDecimal}
	}
	return v, nil
}
