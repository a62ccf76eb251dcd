package regression

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	records := []Record{
		{
			Row: 4, PublishingYear: "2004", BookAverageRating: "4.5", GrossSales: "34160",
			SalePrice: "4.88", SalesRank: "1", Publisher: "A", UnitsSold: "7000", PublisherRating: "4.25",
		},
		{
			Row: 9, PublishingYear: "1998", BookAverageRating: "3.5", GrossSales: "1200.5",
			SalePrice: "0.99", SalesRank: "2", Publisher: "B", UnitsSold: "310", PublisherRating: "3.5",
		},
	}

	ds, err := Extract(records)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Rows())

	features, target := ds.Row(0)
	assert.Equal(t, []float64{2004, 4.5, 34160, 4.88, 4.25}, features)
	assert.Equal(t, 7000.0, target)

	features, target = ds.Row(1)
	assert.Equal(t, []float64{1998, 3.5, 1200.5, 0.99, 3.5}, features)
	assert.Equal(t, 310.0, target)

	_, cols := ds.X.Dims()
	assert.Equal(t, NumFeatures, cols)
}

func TestExtractErrors(t *testing.T) {
	valid := Record{
		Row: 0, PublishingYear: "2004", BookAverageRating: "4.5", GrossSales: "34160",
		SalePrice: "4.88", SalesRank: "1", Publisher: "A", UnitsSold: "7000", PublisherRating: "4.25",
	}

	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"bad year", func(r *Record) { r.PublishingYear = "MMIV" }, FieldPublishingYear},
		{"bad rating", func(r *Record) { r.BookAverageRating = "n/a" }, FieldBookAverageRating},
		{"thousands separator", func(r *Record) { r.GrossSales = "34,160" }, FieldGrossSales},
		{"currency sign", func(r *Record) { r.SalePrice = "$4.88" }, FieldSalePrice},
		{"not enriched", func(r *Record) { r.PublisherRating = "" }, FieldPublisherRating},
		{"bad target", func(r *Record) { r.UnitsSold = "lots" }, FieldUnitsSold},
		{"not a number", func(r *Record) { r.SalePrice = "NaN" }, FieldSalePrice},
		{"infinity", func(r *Record) { r.GrossSales = "-Inf" }, FieldGrossSales},
		{"hex float", func(r *Record) { r.UnitsSold = "0x1p3" }, FieldUnitsSold},
		{"overflow", func(r *Record) { r.GrossSales = "1e400" }, FieldGrossSales},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := valid
			bad.Row = 12
			tt.mutate(&bad)

			_, err := Extract([]Record{valid, bad})
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.field, perr.Field)
			assert.Equal(t, 1, perr.Row)
			assert.Equal(t, 12, perr.SourceRow)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestExtractEmpty(t *testing.T) {
	_, err := Extract(nil)

	var perr *PreconditionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "extract", perr.Op)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr error
	}{
		{in: "1975.0", want: 1975},
		{in: "-0.5", want: -0.5},
		{in: "+3", want: 3},
		{in: "1e3", want: 1000},
		{in: "NaN", wantErr: ErrNotDecimal},
		{in: "inf", wantErr: ErrNotDecimal},
		{in: "-Infinity", wantErr: ErrNotDecimal},
		{in: "0x10", wantErr: ErrNotDecimal},
		{in: "-0X1p-2", wantErr: ErrNotDecimal},
		{in: "1_000", wantErr: strconv.ErrSyntax},
		{in: "", wantErr: strconv.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumber(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
