// Package metric exposes queue and pipeline activity as Prometheus metrics.
// The queue core stays metrics-free: its Stats snapshot is scraped on demand
// through const metrics instead.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/huynhanx03/go-telebuf/pkg/datastructs/queue"
)

const namespace = "telebuf"

// StatsSource is the read side QueueCollector scrapes. *queue.Queue[T]
// satisfies it for any T.
type StatsSource interface {
	Stats() queue.Stats
}

var _ prometheus.Collector = (*QueueCollector)(nil)

// QueueCollector translates one queue's Stats snapshot into Prometheus
// metrics at scrape time. Register one collector per queue; the queue name
// becomes the "queue" label, so names must be unique per registry.
type QueueCollector struct {
	source StatsSource

	depth    *prometheus.Desc
	capacity *prometheus.Desc
	pushed   *prometheus.Desc
	popped   *prometheus.Desc
	dropped  *prometheus.Desc
	expired  *prometheus.Desc
}

// NewQueueCollector creates a collector scraping source under the given
// queue name.
func NewQueueCollector(name string, source StatsSource) *QueueCollector {
	labels := prometheus.Labels{"queue": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "queue", metric),
			help, nil, labels,
		)
	}

	return &QueueCollector{
		source:   source,
		depth:    desc("depth", "Elements currently buffered."),
		capacity: desc("capacity", "Fixed capacity of the queue."),
		pushed:   desc("pushed_total", "Total elements pushed."),
		popped:   desc("popped_total", "Total elements handed to consumers."),
		dropped:  desc("dropped_total", "Total elements overwritten by pushes on a full queue."),
		expired:  desc("expired_waits_total", "Total bounded pops that timed out empty-handed."),
	}
}

// Describe implements prometheus.Collector.
func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.depth
	ch <- c.capacity
	ch <- c.pushed
	ch <- c.popped
	ch <- c.dropped
	ch <- c.expired
}

// Collect takes one Stats snapshot and emits it as const metrics.
func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(s.Depth))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.pushed, prometheus.CounterValue, float64(s.Pushed))
	ch <- prometheus.MustNewConstMetric(c.popped, prometheus.CounterValue, float64(s.Popped))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.CounterValue, float64(s.ExpiredWaits))
}
