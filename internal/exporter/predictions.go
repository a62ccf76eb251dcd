package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"salesreg/internal/regression"
)

// Column headers appended after the feature columns
const (
	ColumnIndex     = "index"
	ColumnPredicted = "predicted"
	ColumnResidual  = "residual"
)

// CoefficientHeaders is the header row of the coefficients export
var CoefficientHeaders = []string{"feature", "weight", "mean", "std"}

// PredictionsExporter writes per-row predictions and fitted coefficients of
// a regression report.
type PredictionsExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewPredictionsExporter creates an exporter rooted at baseDir
func NewPredictionsExporter(baseDir string, logger *slog.Logger) *PredictionsExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionsExporter{
		writer: NewCSVWriter(baseDir, logger),
		logger: logger,
	}
}

// PredictionHeaders returns the header row of the predictions export: the
// row index, raw feature values, target, prediction and residual.
func PredictionHeaders(report *regression.Report) []string {
	headers := make([]string, 0, len(report.FeatureNames)+4)
	headers = append(headers, ColumnIndex)
	headers = append(headers, report.FeatureNames...)
	return append(headers, regression.TargetField, ColumnPredicted, ColumnResidual)
}

// ExportPredictions writes the predictions of report to a CSV file
func (e *PredictionsExporter) ExportPredictions(report *regression.Report, filePath string) error {
	if err := checkReport(report); err != nil {
		return err
	}
	stream, err := e.writer.CreateStreamWriter(filePath, PredictionHeaders(report))
	if err != nil {
		return err
	}
	if err := writePredictionRows(stream, report); err != nil {
		stream.Close()
		return err
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filePath, err)
	}

	e.logger.Info("Exported predictions",
		slog.String("file_path", filePath),
		slog.Int("rows", len(report.Predictions)))
	return nil
}

// WritePredictions streams the predictions of report as CSV to w
func WritePredictions(w io.Writer, report *regression.Report) error {
	if err := checkReport(report); err != nil {
		return err
	}
	stream, err := NewStreamWriter(w, PredictionHeaders(report))
	if err != nil {
		return err
	}
	if err := writePredictionRows(stream, report); err != nil {
		return err
	}
	return stream.Close()
}

// ExportCoefficients writes one row per feature with its fitted weight and
// the scaler statistics, followed by the intercept.
func (e *PredictionsExporter) ExportCoefficients(report *regression.Report, filePath string) error {
	if report == nil || report.Scaler == nil || len(report.Coefficients) != len(report.FeatureNames) {
		return fmt.Errorf("report has no fitted coefficients")
	}

	records := make([][]string, 0, len(report.FeatureNames)+1)
	for i, name := range report.FeatureNames {
		records = append(records, []string{
			name,
			formatFloat(report.Coefficients[i]),
			formatFloat(report.Scaler.Mean[i]),
			formatFloat(report.Scaler.Std[i]),
		})
	}
	records = append(records, []string{"intercept", formatFloat(report.Intercept), "", ""})

	return e.writer.WriteSimpleCSV(filePath, CoefficientHeaders, records)
}

func checkReport(report *regression.Report) error {
	if report == nil || report.Data == nil {
		return fmt.Errorf("report has no dataset")
	}
	if len(report.Predictions) != report.Data.Rows() {
		return fmt.Errorf("report has %d predictions for %d rows", len(report.Predictions), report.Data.Rows())
	}
	return nil
}

func writePredictionRows(stream *StreamWriter, report *regression.Report) error {
	for i, predicted := range report.Predictions {
		features, target := report.Data.Row(i)

		record := make([]string, 0, len(features)+4)
		record = append(record, formatInt(i))
		for _, v := range features {
			record = append(record, formatFloat(v))
		}
		record = append(record,
			formatFloat(target),
			formatFloat(predicted),
			formatFloat(target-predicted),
		)
		if err := stream.WriteRecord(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return nil
}
