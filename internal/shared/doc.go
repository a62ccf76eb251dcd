// Package shared holds code used across salesreg packages that belongs to
// no single layer.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on log output
//   - SalesCSV and SalesXLSX fixtures with a small two-publisher dataset
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := services.NewRegressionService(logger, ...)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "regression run completed")
//	}
package shared
