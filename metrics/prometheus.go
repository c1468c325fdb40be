package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector adapts a Value into a prometheus.Collector so a Pool's counters
// can be scraped alongside the rest of a process's metrics. Grounded on the
// pack's prometheus usage in GabrielNunesIT-go-libs/metrics, which wraps its
// own counters the same way rather than registering raw client_golang
// metrics directly at call sites.
type Collector struct {
	value     *Value
	namespace string
	subsystem string

	processed *prometheus.Desc
	errors    *prometheus.Desc
	dropped   *prometheus.Desc
	procTime  *prometheus.Desc
	initTime  *prometheus.Desc
	waitTime  *prometheus.Desc
}

// NewCollector wraps v for a given namespace/subsystem pair, e.g.
// ("myapp", "ingest_pool").
func NewCollector(v *Value, namespace, subsystem string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, name), help, nil, nil,
		)
	}
	return &Collector{
		value:     v,
		namespace: namespace,
		subsystem: subsystem,
		processed: desc("items_processed_total", "items successfully processed"),
		errors:    desc("items_failed_total", "items that ended in error"),
		dropped:   desc("items_dropped_total", "items abandoned by pool shutdown"),
		procTime:  desc("processing_seconds_total", "cumulative time spent inside the bound callable"),
		initTime:  desc("init_seconds_total", "cumulative time spent in worker initialization"),
		waitTime:  desc("wait_seconds_total", "cumulative time workers spent idle"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.processed
	ch <- c.errors
	ch <- c.dropped
	ch <- c.procTime
	ch <- c.initTime
	ch <- c.waitTime
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.value.GetStats()
	ch <- prometheus.MustNewConstMetric(c.processed, prometheus.CounterValue, float64(stats.Processed))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(stats.Errors))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(stats.Dropped))
	ch <- prometheus.MustNewConstMetric(c.procTime, prometheus.CounterValue, stats.ProcessingTime.Seconds())
	ch <- prometheus.MustNewConstMetric(c.initTime, prometheus.CounterValue, stats.InitTime.Seconds())
	ch <- prometheus.MustNewConstMetric(c.waitTime, prometheus.CounterValue, stats.WaitTime.Seconds())
}
