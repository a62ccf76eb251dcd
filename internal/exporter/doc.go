// Package exporter writes regression results as CSV.
//
// CSVWriter is the low-level writer with header, append, streaming and
// UTF-8 BOM support. PredictionsExporter builds on it to export the
// per-row predictions of a report (raw features, target, prediction and
// residual) and the fitted coefficients together with the scaler
// statistics.
//
// Example usage:
//
//	exp := exporter.NewPredictionsExporter("reports", logger)
//	if err := exp.ExportPredictions(report, "predictions.csv"); err != nil {
//		return err
//	}
package exporter
