// Package queue provides a fixed-capacity FIFO queue that favors fresh data
// over complete data: producers never block, and when the queue is full the
// oldest element is overwritten to make room. Consumers block, optionally
// with a deadline, until an element is available.
//
// The queue is a classic monitor: a single mutex guards the ring storage and
// a 1-buffered channel carries wakeups, so a Push wakes at most one waiting
// consumer. All operations are safe for concurrent use by any number of
// producers and consumers.
package queue

import (
	"sync"
	"time"
)

// Queue is a bounded overwrite queue: a thread-safe circular buffer with a
// capacity fixed at construction. Push always succeeds, discarding the
// oldest element when full. Pop blocks until an element arrives.
//
// The zero value is not usable; construct with New.
type Queue[T any] struct {
	mu    sync.Mutex
	buf   []T // fixed storage, len(buf) == capacity
	head  int // index of the oldest element (next read)
	tail  int // index of the next write; tail == (head+count) % capacity
	count int // live elements, 0 <= count <= capacity

	pushed  uint64
	popped  uint64
	dropped uint64
	expired uint64

	// notEmpty holds at most one token. A token means "state changed,
	// re-check the predicate"; redundant signals collapse instead of
	// accumulating, and a stale token costs a waiter one spurious loop.
	notEmpty chan struct{}
}

// Stats is a point-in-time snapshot of queue activity. Counters are
// cumulative since construction.
type Stats struct {
	Depth    int // elements currently buffered
	Capacity int // fixed capacity

	Pushed       uint64 // total Push calls
	Popped       uint64 // elements handed to consumers (including Drain)
	Dropped      uint64 // elements overwritten by Push on a full queue
	ExpiredWaits uint64 // PopWithTimeout calls that returned ErrTimeout
}

// New creates a queue with room for capacity elements.
// Returns ErrInvalidCapacity if capacity is not positive.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Queue[T]{
		buf:      make([]T, capacity),
		notEmpty: make(chan struct{}, 1),
	}, nil
}

// Push appends v, overwriting the oldest element if the queue is full.
// It never blocks and never fails; an overwritten element is simply gone.
// At most one waiting consumer is woken per call.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	if q.count == len(q.buf) {
		// Full: tail has caught up with head, so the slot about to be
		// written holds the oldest element. Step over it; count stays
		// at capacity.
		q.head = q.next(q.head)
		q.dropped++
	} else {
		q.count++
	}
	q.buf[q.tail] = v
	q.tail = q.next(q.tail)
	q.pushed++
	q.mu.Unlock()

	q.signal()
}

// Pop removes and returns the oldest element, blocking until one is
// available. The lock is released while waiting and the non-empty predicate
// is re-checked on every wake, so concurrent consumers and spurious wakeups
// are harmless. There is no fairness guarantee among waiting consumers.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	for q.count == 0 {
		q.mu.Unlock()
		<-q.notEmpty
		q.mu.Lock()
	}
	v, more := q.takeLocked()
	q.mu.Unlock()
	if more {
		q.signal()
	}
	return v
}

// PopWithTimeout behaves like Pop but gives up after d. On expiry it returns
// the zero value and ErrTimeout, leaving the queue exactly as it found it.
// A non-positive d polls exactly once: the head element if present,
// ErrTimeout otherwise, never suspending.
func (q *Queue[T]) PopWithTimeout(d time.Duration) (T, error) {
	var zero T

	q.mu.Lock()
	if q.count == 0 {
		if d <= 0 {
			q.expired++
			q.mu.Unlock()
			return zero, ErrTimeout
		}

		timer := time.NewTimer(d)
		defer timer.Stop()

		for q.count == 0 {
			q.mu.Unlock()
			select {
			case <-q.notEmpty:
				q.mu.Lock()
			case <-timer.C:
				q.mu.Lock()
				if q.count == 0 {
					q.expired++
					q.mu.Unlock()
					return zero, ErrTimeout
				}
				// Deadline and data arrived together; data wins,
				// same as a predicate re-check at expiry.
			}
		}
	}
	v, more := q.takeLocked()
	q.mu.Unlock()
	if more {
		q.signal()
	}
	return v, nil
}

// Count returns the number of buffered elements. The snapshot can be stale
// as soon as it returns; it is exact only while no other goroutine touches
// the queue.
func (q *Queue[T]) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Size returns the fixed capacity the queue was built with, not the number
// of buffered elements (that is Count). It takes no lock: capacity never
// changes after construction.
func (q *Queue[T]) Size() int {
	return len(q.buf)
}

// IsEmpty reports whether the queue has no buffered elements.
func (q *Queue[T]) IsEmpty() bool {
	return q.Count() == 0
}

// IsFull reports whether the next Push would overwrite the oldest element.
func (q *Queue[T]) IsFull() bool {
	return q.Count() == len(q.buf)
}

// Stats returns a snapshot of the queue's depth and cumulative counters,
// taken under the lock in one critical section.
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Depth:        q.count,
		Capacity:     len(q.buf),
		Pushed:       q.pushed,
		Popped:       q.popped,
		Dropped:      q.dropped,
		ExpiredWaits: q.expired,
	}
}

// Drain removes and returns everything currently buffered, oldest first, in
// a single critical section. It never blocks; an empty queue yields nil.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return nil
	}
	var zero T
	out := make([]T, 0, q.count)
	for q.count > 0 {
		out = append(out, q.buf[q.head])
		q.buf[q.head] = zero
		q.head = q.next(q.head)
		q.count--
		q.popped++
	}
	return out
}

// takeLocked pops the head element. The caller must hold q.mu and have
// checked count > 0. The second result reports whether elements remain, so
// the caller can forward the wakeup to the next waiter after unlocking.
func (q *Queue[T]) takeLocked() (T, bool) {
	var zero T
	v := q.buf[q.head]
	q.buf[q.head] = zero // keep popped slots collectable
	q.head = q.next(q.head)
	q.count--
	q.popped++
	return v, q.count > 0
}

// signal wakes at most one waiter without ever blocking the caller.
func (q *Queue[T]) signal() {
	select {
	case q.notEmpty <- struct{}{}:
	default:
	}
}

func (q *Queue[T]) next(i int) int {
	i++
	if i == len(q.buf) {
		return 0
	}
	return i
}
