package regression

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks the required tags on Record. Safe for concurrent use.
var validate = validator.New()

// Clean trims whitespace from every key and value and drops records that are
// missing any required field or hold an empty value in one. Surviving records
// keep their input order. Values are not parsed here.
func Clean(raw []RawRecord) []Record {
	cleaned := make([]Record, 0, len(raw))
	for i, rr := range raw {
		rec, ok := cleanRecord(i, rr)
		if !ok {
			continue
		}
		cleaned = append(cleaned, rec)
	}
	return cleaned
}

// cleanRecord converts one raw row into a typed Record. Raw keys that trim
// to the same header are visited in sorted order and the first non-empty
// value wins, so the outcome never depends on map iteration order.
func cleanRecord(row int, rr RawRecord) (Record, bool) {
	keys := make([]string, 0, len(rr))
	for key := range rr {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rec := Record{Row: row}
	for _, key := range keys {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(rr[key])

		switch k {
		case FieldPublishingYear:
			setFirst(&rec.PublishingYear, v)
		case FieldBookAverageRating:
			setFirst(&rec.BookAverageRating, v)
		case FieldGrossSales:
			setFirst(&rec.GrossSales, v)
		case FieldSalePrice:
			setFirst(&rec.SalePrice, v)
		case FieldSalesRank:
			setFirst(&rec.SalesRank, v)
		case FieldPublisher:
			setFirst(&rec.Publisher, v)
		case FieldUnitsSold:
			setFirst(&rec.UnitsSold, v)
		case FieldPublisherRating:
			// derived column, recomputed by the aggregate builder
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			if rec.Extra[k] == "" {
				rec.Extra[k] = v
			}
		}
	}

	if err := validate.Struct(rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

func setFirst(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
