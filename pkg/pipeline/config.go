package pipeline

import (
	"time"

	"github.com/huynhanx03/go-telebuf/pkg/settings"
	"github.com/huynhanx03/go-telebuf/pkg/utils"
)

const (
	defaultWorkers       = 1
	defaultBatchSize     = 64
	defaultPollTimeout   = 100 * time.Millisecond
	defaultFlushInterval = time.Second
)

// Config tunes the drain workers. Zero fields take defaults; the default
// single worker preserves FIFO delivery into the sinks, more workers trade
// order for throughput.
type Config struct {
	// Workers is the number of concurrent drain goroutines.
	Workers int

	// BatchSize caps the number of elements handed to a sink per Write.
	BatchSize int

	// PollTimeout bounds each wait on the queue. It is the pipeline's
	// shutdown latency: a cancelled worker exits within one PollTimeout.
	PollTimeout time.Duration

	// FlushInterval caps how long a started batch lingers waiting to fill
	// up before it is delivered as-is.
	FlushInterval time.Duration

	// DrainOnStop delivers whatever is still buffered when Stop is called.
	DrainOnStop bool
}

// FromSettings converts the shared settings section, which carries whole
// milliseconds, into a Config.
func FromSettings(s settings.Pipeline) Config {
	return Config{
		Workers:       s.Workers,
		BatchSize:     s.BatchSize,
		PollTimeout:   utils.ToDurationMs(s.PollTimeout),
		FlushInterval: utils.ToDurationMs(s.FlushInterval),
		DrainOnStop:   s.DrainOnStop,
	}
}

// setDefaultConfig sets default values for pipeline configuration
func setDefaultConfig(cfg *Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
}
