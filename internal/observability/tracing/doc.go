// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware opens a server span per request and exposes its trace
// ID in the X-Trace-Id response header. Source adapters open client spans
// around upstream calls with StartUpstream/EndUpstream.
//
//	shutdown := tracing.Init()
//	defer shutdown(context.Background())
package tracing
