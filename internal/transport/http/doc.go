// Package http implements the HTTP handlers of the regression service.
//
// Handlers stay thin: they parse the request, delegate to a service and
// render the result with chi/render. Every error goes through
// errors.ErrorHandler so clients always receive RFC 7807 problem details.
//
// # Endpoints
//
//	POST /api/v1/regressions        run the pipeline over an uploaded dataset
//	GET  /api/v1/regressions        list stored runs, newest first
//	GET  /api/v1/regressions/{id}   fetch one stored run with its report
//	GET  /api/health[/ready|/live]  health probes
//	GET  /api/version               build and runtime information
//	GET  /api/v1/events             websocket stream of run events
//	GET  /metrics                   Prometheus exposition
//
// POST accepts the dataset as the raw body (text/csv or the XLSX media
// type, optional ?name= for format detection) or as the "file" part of a
// multipart form. ?seed= fixes the row shuffle. Send Accept: text/csv to
// receive per-row predictions instead of the JSON report.
package http
