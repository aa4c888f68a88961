package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "showmarks"

// exportedOps are the operations exposed to Prometheus.
var exportedOps = []string{OpSearch, OpOrder, OpRender, OpCatalogLoad}

// promExporter exposes a Collector as Prometheus metrics at scrape time.
type promExporter struct {
	c       *Collector
	ops     *prometheus.Desc
	errors  *prometheus.Desc
	seconds *prometheus.Desc
	uptime  *prometheus.Desc
}

// Register adds the collector's metrics to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	return reg.Register(&promExporter{
		c: c,
		ops: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "operations_total"),
			"Total number of operations",
			[]string{"op"}, nil,
		),
		errors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "operation_errors_total"),
			"Total number of failed operations",
			[]string{"op"}, nil,
		),
		seconds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "operation_seconds_total"),
			"Total time spent in operations in seconds",
			[]string{"op"}, nil,
		),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Seconds since the collector was created",
			nil, nil,
		),
	})
}

// Describe implements prometheus.Collector.
func (e *promExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.ops
	ch <- e.errors
	ch <- e.seconds
	ch <- e.uptime
}

// Collect implements prometheus.Collector.
func (e *promExporter) Collect(ch chan<- prometheus.Metric) {
	for _, op := range exportedOps {
		count, errs, secs := e.c.counts(op)
		ch <- prometheus.MustNewConstMetric(e.ops, prometheus.CounterValue, float64(count), op)
		ch <- prometheus.MustNewConstMetric(e.errors, prometheus.CounterValue, float64(errs), op)
		ch <- prometheus.MustNewConstMetric(e.seconds, prometheus.CounterValue, secs, op)
	}
	ch <- prometheus.MustNewConstMetric(e.uptime, prometheus.GaugeValue, time.Since(e.c.startTime).Seconds())
}
