package regression

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratedRecord(row int, publisher, rating string) Record {
	return Record{
		Row:               row,
		PublishingYear:    "2004",
		BookAverageRating: rating,
		GrossSales:        "100",
		SalePrice:         "4.88",
		SalesRank:         strconv.Itoa(row + 1),
		Publisher:         publisher,
		UnitsSold:         "50",
	}
}

func TestPublisherRatings(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    map[string]float64
	}{
		{
			name: "two publishers",
			records: []Record{
				ratedRecord(0, "A", "5"),
				ratedRecord(1, "B", "2"),
				ratedRecord(2, "A", "3"),
			},
			want: map[string]float64{"A": 4, "B": 2},
		},
		{
			name:    "single record",
			records: []Record{ratedRecord(0, "Solo", "3.5")},
			want:    map[string]float64{"Solo": 3.5},
		},
		{
			name:    "no records",
			records: nil,
			want:    map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PublisherRatings(tt.records)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublisherRatingsInvalidRating(t *testing.T) {
	records := []Record{
		ratedRecord(0, "A", "4.0"),
		ratedRecord(3, "B", "four"),
	}

	_, err := PublisherRatings(records)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, FieldBookAverageRating, perr.Field)
	assert.Equal(t, 1, perr.Row)
	assert.Equal(t, 3, perr.SourceRow)
	assert.Equal(t, "four", perr.Value)

	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestWithPublisherRatings(t *testing.T) {
	original := []Record{
		ratedRecord(0, "A", "5"),
		ratedRecord(1, "B", "2"),
		ratedRecord(2, "A", "3"),
		ratedRecord(3, "C", "1"),
	}
	original[0].Extra = map[string]string{"Author": "X"}

	ratings := map[string]float64{"A": 4, "B": 2.25}
	enriched := WithPublisherRatings(original, ratings)
	require.Len(t, enriched, len(original))

	assert.Equal(t, "4", enriched[0].PublisherRating)
	assert.Equal(t, "2.25", enriched[1].PublisherRating)
	assert.Equal(t, "4", enriched[2].PublisherRating)
	assert.Empty(t, enriched[3].PublisherRating, "unknown publisher gets no rating")

	// the input sequence is untouched
	for _, rec := range original {
		assert.Empty(t, rec.PublisherRating)
	}
	enriched[0].Extra["Author"] = "Y"
	assert.Equal(t, "X", original[0].Extra["Author"])
}

func TestEnrichPublisherRatings(t *testing.T) {
	records := []Record{
		ratedRecord(0, "A", "5"),
		ratedRecord(1, "B", "2"),
		ratedRecord(2, "A", "3"),
	}

	enriched, ratings, err := EnrichPublisherRatings(records)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	for _, rec := range enriched {
		got, err := strconv.ParseFloat(rec.PublisherRating, 64)
		require.NoError(t, err)
		assert.Equal(t, ratings[rec.Publisher], got)
	}
}

func TestPublisherRatingsRejectsNonFinite(t *testing.T) {
	for _, rating := range []string{"NaN", "+Inf", "0x1p2"} {
		t.Run(rating, func(t *testing.T) {
			_, err := PublisherRatings([]Record{ratedRecord(0, "A", "4.0"), ratedRecord(5, "A", rating)})

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, FieldBookAverageRating, perr.Field)
			assert.Equal(t, 5, perr.SourceRow)
			assert.ErrorIs(t, err, ErrNotDecimal)
		})
	}
}
