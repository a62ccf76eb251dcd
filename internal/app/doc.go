// Package app wires configuration, telemetry, the run store, services and
// the HTTP router into one Application.
//
// The CLI uses the same container for one-shot runs: fit only calls the
// RegressionService, serve calls Run.
//
//	a, err := app.NewApplication(ctx, cfg, logger)
//	if err != nil {
//		return err
//	}
//	defer a.Close(ctx)
//	return a.Run(ctx)
package app
