package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics instruments the drain pipeline. Everything is labeled by
// sink so one pipeline fanning out to several backends stays readable.
type PipelineMetrics struct {
	BatchesTotal    *prometheus.CounterVec
	EventsTotal     *prometheus.CounterVec
	SinkErrorsTotal *prometheus.CounterVec
	FlushSeconds    *prometheus.HistogramVec
}

// NewPipelineMetrics creates the pipeline metric set, unregistered.
func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		BatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "batches_total",
				Help:      "Total batches delivered per sink.",
			},
			[]string{"sink"},
		),
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "events_total",
				Help:      "Total elements delivered per sink.",
			},
			[]string{"sink"},
		),
		SinkErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "sink_errors_total",
				Help:      "Total failed batch writes per sink.",
			},
			[]string{"sink"},
		),
		FlushSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "flush_seconds",
				Help:      "Batch write latency per sink.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"sink"},
		),
	}
}

// Register registers every pipeline metric with r.
func (m *PipelineMetrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.BatchesTotal,
		m.EventsTotal,
		m.SinkErrorsTotal,
		m.FlushSeconds,
	} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordFlush records one delivered batch of the given size.
func (m *PipelineMetrics) RecordFlush(sink string, elements int, elapsed time.Duration) {
	m.BatchesTotal.WithLabelValues(sink).Inc()
	m.EventsTotal.WithLabelValues(sink).Add(float64(elements))
	m.FlushSeconds.WithLabelValues(sink).Observe(elapsed.Seconds())
}

// RecordSinkError counts one failed batch write.
func (m *PipelineMetrics) RecordSinkError(sink string) {
	m.SinkErrorsTotal.WithLabelValues(sink).Inc()
}
