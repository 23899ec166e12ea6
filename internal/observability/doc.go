// Package observability groups the logging, metrics and tracing support
// shared by the API server and the poller worker.
//
// Subpackages:
//   - logging: slog construction, request ID propagation and credential masking
//   - metrics: Prometheus counters for upstream newsletter sources
//   - tracing: OpenTelemetry spans for HTTP requests and upstream calls
package observability
