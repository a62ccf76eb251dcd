// Package dataset reads tabular sales data into raw records for the
// regression pipeline.
//
// Two formats are supported, both with a header row naming the columns:
//
//   - CSV (comma separated, quoted fields allowed)
//   - XLSX (first worksheet of the workbook)
//
// Every data row becomes a regression.RawRecord mapping the header to the
// cell text. Values are passed through verbatim; trimming and validation are
// done by regression.Clean. Cells missing from a short row are absent from
// the record rather than empty, so cleaning drops the row when a required
// column is affected.
//
// Usage:
//
//	raw, err := dataset.ReadFile("books_sales.csv")
//	if err != nil {
//		return err
//	}
//	report, err := regression.NewPipeline().Run(ctx, raw)
package dataset
