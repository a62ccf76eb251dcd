// Package services implements the business logic layer between the HTTP
// handlers or CLI commands and the regression pipeline.
//
// # Services
//
//   - RegressionService: reads an uploaded or on-disk dataset, runs the
//     pipeline with a seeded shuffle, records metrics, stores the run and
//     publishes run:started, run:completed or run:failed events
//   - HealthService: liveness, readiness and version information
//
// Services take their dependencies through constructor options and accept
// small interfaces (RunStore, Pinger, EventPublisher) so tests can substitute testify mocks:
//
//	runs := new(MockRunStore)
//	runs.On("Save", mock.Anything, mock.Anything).Return(nil)
//	svc := NewRegressionService(logger, WithStore(runs))
//
// # Error Handling
//
// Pipeline and dataset errors are returned unchanged so transport layers
// can map them with errors.As. Failures are classified with
// errors.Classify before they are counted in metrics.
package services
