package regression

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeRaw returns a raw row with every required column populated
func completeRaw(publisher, rating string) RawRecord {
	return RawRecord{
		FieldPublishingYear:    "2004",
		FieldBookAverageRating: rating,
		FieldGrossSales:        "34160.0",
		FieldSalePrice:         "4.88",
		FieldSalesRank:         "1",
		FieldPublisher:         publisher,
		FieldUnitsSold:         "7000",
	}
}

func TestClean(t *testing.T) {
	t.Run("trims keys and values", func(t *testing.T) {
		raw := []RawRecord{{
			" Publishing Year ":     " 2004 ",
			"Book_average_rating\t": "4.5 ",
			"  gross sales":         " 100.5",
			"sale price ":           "4.88",
			" sales rank":           "1",
			"Publisher ":            "  HarperCollins  ",
			"units sold":            " 7000 ",
			" Author ":              "  Jane Doe ",
		}}

		cleaned := Clean(raw)
		require.Len(t, cleaned, 1)

		rec := cleaned[0]
		assert.Equal(t, "2004", rec.PublishingYear)
		assert.Equal(t, "4.5", rec.BookAverageRating)
		assert.Equal(t, "100.5", rec.GrossSales)
		assert.Equal(t, "HarperCollins", rec.Publisher)
		assert.Equal(t, "7000", rec.UnitsSold)
		assert.Equal(t, map[string]string{"Author": "Jane Doe"}, rec.Extra)

		for _, f := range rec.Fields() {
			assert.Equal(t, f.Key, strings.TrimSpace(f.Key))
			assert.Equal(t, f.Value, strings.TrimSpace(f.Value))
		}
	})

	t.Run("drops incomplete records", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(RawRecord)
		}{
			{"missing publisher", func(r RawRecord) { delete(r, FieldPublisher) }},
			{"empty units sold", func(r RawRecord) { r[FieldUnitsSold] = "" }},
			{"whitespace only rating", func(r RawRecord) { r[FieldBookAverageRating] = "   " }},
			{"missing sales rank", func(r RawRecord) { delete(r, FieldSalesRank) }},
			{"empty publishing year", func(r RawRecord) { r[FieldPublishingYear] = "\t" }},
			{"missing sale price", func(r RawRecord) { delete(r, FieldSalePrice) }},
			{"missing gross sales", func(r RawRecord) { delete(r, FieldGrossSales) }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := completeRaw("Penguin", "4.0")
				tt.mutate(rec)
				assert.Empty(t, Clean([]RawRecord{rec}))
			})
		}
	})

	t.Run("preserves order of survivors", func(t *testing.T) {
		bad := completeRaw("Nobody", "1.0")
		bad[FieldPublisher] = ""
		raw := []RawRecord{
			completeRaw("A", "1.0"),
			bad,
			completeRaw("B", "2.0"),
			completeRaw("C", "3.0"),
		}

		cleaned := Clean(raw)
		require.Len(t, cleaned, 3)
		assert.Equal(t, "A", cleaned[0].Publisher)
		assert.Equal(t, "B", cleaned[1].Publisher)
		assert.Equal(t, "C", cleaned[2].Publisher)
		assert.Equal(t, []int{0, 2, 3}, []int{cleaned[0].Row, cleaned[1].Row, cleaned[2].Row})
	})

	t.Run("keeps non-numeric garbage for later parsing", func(t *testing.T) {
		rec := completeRaw("A", "not-a-number")
		cleaned := Clean([]RawRecord{rec})
		require.Len(t, cleaned, 1)
		assert.Equal(t, "not-a-number", cleaned[0].BookAverageRating)
	})

	t.Run("ignores a pre-existing derived column", func(t *testing.T) {
		rec := completeRaw("A", "4.0")
		rec[FieldPublisherRating] = "9.9"
		cleaned := Clean([]RawRecord{rec})
		require.Len(t, cleaned, 1)
		assert.Empty(t, cleaned[0].PublisherRating)
	})

	t.Run("headers that trim to the same name", func(t *testing.T) {
		tests := []struct {
			name          string
			publisher     string
			padded        string
			wantPublisher string
		}{
			{"empty then padded", "", "Penguin", "Penguin"},
			{"padded empty", "Penguin", "  ", "Penguin"},
			{"both empty", "", "", ""},
			// " Publisher " sorts before "Publisher"
			{"both set", "Penguin", "HarperCollins", "HarperCollins"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				for i := 0; i < 20; i++ {
					rec := completeRaw(tt.publisher, "4.0")
					rec[" Publisher "] = tt.padded

					cleaned := Clean([]RawRecord{rec})
					if tt.wantPublisher == "" {
						require.Empty(t, cleaned)
						continue
					}
					require.Len(t, cleaned, 1)
					assert.Equal(t, tt.wantPublisher, cleaned[0].Publisher)
					assert.NotContains(t, cleaned[0].Extra, FieldPublisher)
				}
			})
		}
	})
}

func TestRecordFields(t *testing.T) {
	rec := Record{
		PublishingYear:    "2004",
		BookAverageRating: "4.5",
		GrossSales:        "100",
		SalePrice:         "4.88",
		SalesRank:         "1",
		Publisher:         "A",
		UnitsSold:         "7000",
		PublisherRating:   "4.25",
		Extra:             map[string]string{"genre": "fiction", "Author": "X"},
	}

	fields := rec.Fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}

	assert.Equal(t, []string{
		FieldPublishingYear,
		FieldBookAverageRating,
		FieldGrossSales,
		FieldSalePrice,
		FieldSalesRank,
		FieldPublisher,
		FieldUnitsSold,
		FieldPublisherRating,
		"Author",
		"genre",
	}, keys)
}
