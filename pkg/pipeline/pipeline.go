// Package pipeline drains a bounded overwrite queue into one or more sinks.
// Workers pop elements, assemble batches bounded by size and linger time,
// and fan each batch out to every sink. A failing sink is logged and
// counted, never fatal: the pipeline's job is to keep the queue moving.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-telebuf/pkg/datastructs/queue"
	"github.com/huynhanx03/go-telebuf/pkg/metric"
	"github.com/huynhanx03/go-telebuf/pkg/sink"
)

// Pipeline owns the drain workers for one queue. It is single-use: Start
// once, Stop once (Stop is idempotent after the first call).
type Pipeline[T any] struct {
	queue   *queue.Queue[T]
	sinks   []sink.Sink[T]
	cfg     Config
	log     *zap.Logger
	metrics *metric.PipelineMetrics // nil disables instrumentation

	mu      sync.Mutex
	group   *errgroup.Group
	cancel  context.CancelFunc
	started bool
	stopped bool
}

// New builds a pipeline draining q into sinks. log and metrics may be nil
// (nop logger, no instrumentation). Zero Config fields take defaults.
func New[T any](
	q *queue.Queue[T],
	sinks []sink.Sink[T],
	cfg Config,
	log *zap.Logger,
	metrics *metric.PipelineMetrics,
) (*Pipeline[T], error) {
	if q == nil {
		return nil, ErrNilQueue
	}
	if len(sinks) == 0 {
		return nil, ErrNoSinks
	}
	setDefaultConfig(&cfg)
	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline[T]{
		queue:   q,
		sinks:   sinks,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
	}, nil
}

// Start launches the drain workers. They run until ctx is cancelled or Stop
// is called. Start returns ErrAlreadyRunning on any call after the first.
func (p *Pipeline[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyRunning
	}
	p.started = true

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	g, runCtx := errgroup.WithContext(runCtx)
	p.group = g
	for i := 0; i < p.cfg.Workers; i++ {
		id := i
		g.Go(func() error {
			p.runWorker(runCtx, id)
			return nil
		})
	}

	p.log.Info("pipeline started",
		zap.Int("workers", p.cfg.Workers),
		zap.Int("batch_size", p.cfg.BatchSize),
		zap.Duration("poll_timeout", p.cfg.PollTimeout),
		zap.Duration("flush_interval", p.cfg.FlushInterval),
		zap.Int("sinks", len(p.sinks)),
	)
	return nil
}

// Stop cancels the workers, waits for them to exit, optionally delivers
// whatever is still buffered (DrainOnStop) and closes every sink. The first
// call does the work and returns the first sink close error, if any; later
// calls return nil.
func (p *Pipeline[T]) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotRunning
	}
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	p.cancel()
	// Workers only ever return nil; Wait is for lifetime, not errors.
	_ = p.group.Wait()

	if p.cfg.DrainOnStop {
		p.drainRemaining()
	}

	var firstErr error
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			p.log.Error("sink close failed",
				zap.String("sink", s.Name()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "close sink %s", s.Name())
			}
		}
	}

	p.log.Info("pipeline stopped")
	return firstErr
}

// runWorker is one drain loop: wait for a first element, top the batch up,
// deliver, repeat. The bounded pop keeps the worker responsive to
// cancellation even on an idle queue.
func (p *Pipeline[T]) runWorker(ctx context.Context, id int) {
	log := p.log.With(zap.Int("worker", id))
	log.Debug("worker started")

	for {
		if ctx.Err() != nil {
			log.Debug("worker exiting")
			return
		}

		first, err := p.queue.PopWithTimeout(p.cfg.PollTimeout)
		if err != nil {
			continue // idle; loop re-checks ctx
		}

		batch := p.fill(ctx, first)
		flushCtx := ctx
		if ctx.Err() != nil {
			// The batch was cut short by cancellation, but its elements
			// are already out of the queue; deliver them on a fresh
			// context instead of losing them to ctx-honoring sinks.
			flushCtx = context.Background()
		}
		p.flush(flushCtx, log, batch)
	}
}

// fill tops a batch up after its first element. Polls are capped by both
// the flush deadline and PollTimeout, so a lingering batch still notices
// cancellation promptly and is delivered as-is.
func (p *Pipeline[T]) fill(ctx context.Context, first T) []T {
	batch := make([]T, 1, p.cfg.BatchSize)
	batch[0] = first

	flushAt := time.Now().Add(p.cfg.FlushInterval)
	for len(batch) < p.cfg.BatchSize && ctx.Err() == nil {
		wait := time.Until(flushAt)
		if wait <= 0 {
			break
		}
		if wait > p.cfg.PollTimeout {
			wait = p.cfg.PollTimeout
		}

		v, err := p.queue.PopWithTimeout(wait)
		if err != nil {
			continue // re-check deadline and ctx
		}
		batch = append(batch, v)
	}
	return batch
}

// flush fans one batch out to every sink.
func (p *Pipeline[T]) flush(ctx context.Context, log *zap.Logger, batch []T) {
	for _, s := range p.sinks {
		start := time.Now()
		if err := s.Write(ctx, batch); err != nil {
			if p.metrics != nil {
				p.metrics.RecordSinkError(s.Name())
			}
			log.Error("sink write failed",
				zap.String("sink", s.Name()),
				zap.Int("batch_size", len(batch)),
				zap.Error(errors.Wrap(err, "pipeline flush")),
			)
			continue
		}
		if p.metrics != nil {
			p.metrics.RecordFlush(s.Name(), len(batch), time.Since(start))
		}
	}
}

// drainRemaining delivers what the workers left behind, in BatchSize
// chunks. The run context is gone by now; sink-level timeouts bound the
// writes instead.
func (p *Pipeline[T]) drainRemaining() {
	rest := p.queue.Drain()
	if len(rest) == 0 {
		return
	}
	p.log.Info("draining remaining elements", zap.Int("count", len(rest)))

	ctx := context.Background()
	for start := 0; start < len(rest); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(rest))
		p.flush(ctx, p.log, rest[start:end])
	}
}
