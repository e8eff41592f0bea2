// Package metric provides Prometheus metrics for respkv.
package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreStats is the read-only view of the store the collector needs.
type StoreStats interface {
	Len() int
}

// Collector exports live store statistics at scrape time.
type Collector struct {
	store StoreStats
	keys  *prometheus.Desc
}

// NewCollector creates a collector reading from store.
func NewCollector(store StoreStats) *Collector {
	return &Collector{
		store: store,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Entries held by the store, including expired entries not yet overwritten.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.store.Len()))
}
