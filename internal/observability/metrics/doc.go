// Package metrics exposes Prometheus counters and histograms for newsletter
// sources and the proxy endpoint. Metrics register with the default registry
// through promauto and are served by the /metrics handler.
//
//	start := time.Now()
//	res := src.FetchLatest(ctx)
//	metrics.RecordUpstream(src.Name(), res.Outcome.String(), time.Since(start))
package metrics
