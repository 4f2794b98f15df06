// Package timer abstracts the clock behind ID stamping so hot paths can
// trade timestamp precision for syscall-free reads.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a stoppable clock. Implementations must be safe for concurrent
// Now calls.
type Timer interface {
	Now() time.Time
	Stop()
}

// Real reads the system clock on every call. The zero value is usable.
type Real struct{}

func NewReal() *Real { return &Real{} }

func (*Real) Now() time.Time { return time.Now() }

// Stop is a no-op; the system clock has nothing to release.
func (*Real) Stop() {}

// Cached serves a timestamp refreshed by a background ticker, so Now is an
// atomic load instead of a syscall. The value lags real time by up to one
// step; callers that need sub-step precision should use Real.
type Cached struct {
	now    atomic.Value // time.Time
	step   time.Duration
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewCached starts a cached clock advancing every step.
func NewCached(step time.Duration) *Cached {
	t := &Cached{
		step:   step,
		ticker: time.NewTicker(step),
		done:   make(chan struct{}),
	}
	t.now.Store(time.Now())

	t.wg.Add(1)
	go t.run()

	return t
}

// run advances the cached value by step per tick. The cached clock promises
// monotonic, step-grained time, not wall-clock accuracy: ticks the runtime
// coalesces under load are simply lost.
func (t *Cached) run() {
	defer t.wg.Done()

	current := t.Now()
	for {
		select {
		case <-t.ticker.C:
			current = current.Add(t.step)
			t.now.Store(current)
		case <-t.done:
			t.ticker.Stop()
			return
		}
	}
}

// Now returns the cached timestamp.
func (t *Cached) Now() time.Time {
	return t.now.Load().(time.Time)
}

// Stop halts the refresher goroutine and waits for it to exit. Now keeps
// returning the last cached value after Stop.
func (t *Cached) Stop() {
	close(t.done)
	t.wg.Wait()
}
