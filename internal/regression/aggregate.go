package regression

import (
	"strconv"
)

// PublisherRatings computes the average Book_average_rating of every
// publisher across the given records.
func PublisherRatings(records []Record) (map[string]float64, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for i, rec := range records {
		rating, err := parseNumber(rec.BookAverageRating)
		if err != nil {
			return nil, &ParseError{
				Field:     FieldBookAverageRating,
				Row:       i,
				SourceRow: rec.Row,
				Value:     rec.BookAverageRating,
				Err:       err,
			}
		}
		sums[rec.Publisher] += rating
		counts[rec.Publisher]++
	}

	averages := make(map[string]float64, len(sums))
	for publisher, sum := range sums {
		averages[publisher] = sum / float64(counts[publisher])
	}
	return averages, nil
}

// WithPublisherRatings returns copies of records with PublisherRating set to
// the formatted average of their publisher. The input is left untouched.
// Publishers missing from ratings get no value and fail later at extraction.
func WithPublisherRatings(records []Record, ratings map[string]float64) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		enriched := rec.clone()
		if avg, ok := ratings[rec.Publisher]; ok {
			enriched.PublisherRating = strconv.FormatFloat(avg, 'f', -1, 64)
		} else {
			enriched.PublisherRating = ""
		}
		out[i] = enriched
	}
	return out
}

// EnrichPublisherRatings builds the publisher rating map and injects it into
// a copy of every record.
func EnrichPublisherRatings(records []Record) ([]Record, map[string]float64, error) {
	ratings, err := PublisherRatings(records)
	if err != nil {
		return nil, nil, err
	}
	return WithPublisherRatings(records, ratings), ratings, nil
}
