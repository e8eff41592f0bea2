// Package metric provides Prometheus metrics for respkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, recording helpers and HTTP handler
//   - collector.go: Collector reading live statistics from the store
//
// Metrics include:
//
//   - Command counters and latency histograms, labelled by command
//   - Connection gauges and counters
//   - Protocol error counters
//   - Key count of the store
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
