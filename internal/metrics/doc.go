// Package metrics records per-run counters and gauges in a private Prometheus
// registry.
//
// The program runs as a batch job, so nothing is scraped while it works.
// Instead the registry is written in the text exposition format at the end of
// a run (for node_exporter's textfile collector) and served on /metrics by
// the preview server.
package metrics
