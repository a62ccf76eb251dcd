package regression

import (
	"fmt"
	"sort"
)

// Source column headers of the sales dataset
const (
	FieldPublishingYear    = "Publishing Year"
	FieldBookAverageRating = "Book_average_rating"
	FieldGrossSales        = "gross sales"
	FieldSalePrice         = "sale price"
	FieldSalesRank         = "sales rank"
	FieldPublisher         = "Publisher"
	FieldUnitsSold         = "units sold"

	// FieldPublisherRating is derived by the aggregate feature builder
	FieldPublisherRating = "Publisher_rating"
)

// RequiredFields lists the columns that must be present and non-empty for a
// record to survive cleaning.
var RequiredFields = []string{
	FieldPublishingYear,
	FieldBookAverageRating,
	FieldGrossSales,
	FieldSalePrice,
	FieldSalesRank,
	FieldPublisher,
	FieldUnitsSold,
}

// RawRecord is a single data row as produced by a tabular reader: column
// header to raw cell value.
type RawRecord map[string]string

// Record is a cleaned data row. Values stay as strings until extraction.
type Record struct {
	Row int `json:"row"` // 0-based position in the raw input

	PublishingYear    string `json:"publishing_year" validate:"required"`
	BookAverageRating string `json:"book_average_rating" validate:"required"`
	GrossSales        string `json:"gross_sales" validate:"required"`
	SalePrice         string `json:"sale_price" validate:"required"`
	SalesRank         string `json:"sales_rank" validate:"required"`
	Publisher         string `json:"publisher" validate:"required"`
	UnitsSold         string `json:"units_sold" validate:"required"`

	// PublisherRating is empty until WithPublisherRatings has run
	PublisherRating string `json:"publisher_rating,omitempty"`

	// Extra holds the remaining trimmed columns
	Extra map[string]string `json:"extra,omitempty"`
}

// Value returns the raw string for a source column header.
func (r Record) Value(field string) (string, bool) {
	switch field {
	case FieldPublishingYear:
		return r.PublishingYear, true
	case FieldBookAverageRating:
		return r.BookAverageRating, true
	case FieldGrossSales:
		return r.GrossSales, true
	case FieldSalePrice:
		return r.SalePrice, true
	case FieldSalesRank:
		return r.SalesRank, true
	case FieldPublisher:
		return r.Publisher, true
	case FieldUnitsSold:
		return r.UnitsSold, true
	case FieldPublisherRating:
		return r.PublisherRating, r.PublisherRating != ""
	}
	v, ok := r.Extra[field]
	return v, ok
}

// Field is a single key/value pair of a record.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields returns every column of the record as key/value pairs: known
// columns first in schema order, then extra columns sorted by name.
func (r Record) Fields() []Field {
	out := make([]Field, 0, len(RequiredFields)+1+len(r.Extra))
	for _, name := range RequiredFields {
		v, _ := r.Value(name)
		out = append(out, Field{Key: name, Value: v})
	}
	if r.PublisherRating != "" {
		out = append(out, Field{Key: FieldPublisherRating, Value: r.PublisherRating})
	}

	extra := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, Field{Key: k, Value: r.Extra[k]})
	}
	return out
}

// clone returns a deep copy so derived records never share the Extra map.
func (r Record) clone() Record {
	c := r
	if r.Extra != nil {
		c.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// FeatureColumn identifies a column of the design matrix. The order of the
// constants is the column order of the matrix and of the fitted weights.
type FeatureColumn int

const (
	PublishingYear FeatureColumn = iota
	BookAverageRating
	GrossSales
	SalePrice
	PublisherRating

	// NumFeatures is the width of the design matrix
	NumFeatures = int(PublisherRating) + 1
)

// TargetField is the column predicted by the model.
const TargetField = FieldUnitsSold

// FeatureColumns returns all feature columns in matrix order.
func FeatureColumns() []FeatureColumn {
	cols := make([]FeatureColumn, NumFeatures)
	for i := range cols {
		cols[i] = FeatureColumn(i)
	}
	return cols
}

// Header returns the source column header of the feature.
func (c FeatureColumn) Header() string {
	switch c {
	case PublishingYear:
		return FieldPublishingYear
	case BookAverageRating:
		return FieldBookAverageRating
	case GrossSales:
		return FieldGrossSales
	case SalePrice:
		return FieldSalePrice
	case PublisherRating:
		return FieldPublisherRating
	default:
		return "unknown"
	}
}

// String implements fmt.Stringer
func (c FeatureColumn) String() string {
	return c.Header()
}

// ParseError reports a value that could not be parsed as a number.
type ParseError struct {
	Field     string `json:"field"`
	Row       int    `json:"row"`        // index of the record in the sequence being processed
	SourceRow int    `json:"source_row"` // 0-based data row in the input file
	Value     string `json:"value"`
	Err       error  `json:"-"`
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at record %d (input row %d): invalid number %q",
		e.Field, e.Row, e.SourceRow, e.Value)
}

// Unwrap returns the underlying strconv error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// SingularMatrixError reports that the normal matrix XᵀX could not be
// inverted, usually because of a constant or collinear feature.
type SingularMatrixError struct {
	Condition float64 `json:"condition"`
	Reason    string  `json:"reason"`
}

// Error implements the error interface
func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("normal matrix is singular (condition %g): %s", e.Condition, e.Reason)
}

// PreconditionError reports a violated input precondition such as an empty
// dataset or mismatched vector lengths.
type PreconditionError struct {
	Op      string `json:"op"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return e.Op + ": " + e.Message
}
