package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{"single_slot", 1},
		{"small", 2},
		{"typical", 64},
		{"large", 64 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New[int](tt.capacity)
			if err != nil {
				t.Fatalf("New(%d) returned error: %v", tt.capacity, err)
			}
			if q == nil {
				t.Fatal("New returned nil queue")
			}
			if got := q.Size(); got != tt.capacity {
				t.Errorf("Size() = %d, want %d", got, tt.capacity)
			}
			if got := q.Count(); got != 0 {
				t.Errorf("Count() on new queue = %d, want 0", got)
			}
			if !q.IsEmpty() {
				t.Error("new queue should be empty")
			}
		})
	}
}

func TestNew_InvalidCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{"zero", 0},
		{"negative", -1},
		{"negative_large", -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New[int](tt.capacity)
			if !errors.Is(err, ErrInvalidCapacity) {
				t.Errorf("New(%d) error = %v, want ErrInvalidCapacity", tt.capacity, err)
			}
			if q != nil {
				t.Errorf("New(%d) = %v, want nil queue on error", tt.capacity, q)
			}
		})
	}
}

// =============================================================================
// Push Tests
// =============================================================================

func TestPush_FIFOOrder(t *testing.T) {
	q, _ := New[int](2)

	q.Push(1)
	q.Push(2)

	if got := q.Pop(); got != 1 {
		t.Errorf("first Pop() = %d, want 1", got)
	}
	if got := q.Pop(); got != 2 {
		t.Errorf("second Pop() = %d, want 2", got)
	}
}

func TestPush_OverwritesOldest(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		pushes   []int
		want     []int
	}{
		{"one_over", 2, []int{1, 2, 3}, []int{2, 3}},
		{"single_slot_keeps_last", 1, []int{1, 2, 3, 4}, []int{4}},
		{"two_over", 3, []int{1, 2, 3, 4, 5}, []int{3, 4, 5}},
		{"full_rotation", 2, []int{1, 2, 3, 4, 5, 6}, []int{5, 6}},
		{"no_overflow", 4, []int{1, 2, 3}, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := New[int](tt.capacity)
			for _, v := range tt.pushes {
				q.Push(v)
			}

			if got := q.Count(); got != len(tt.want) {
				t.Errorf("Count() = %d, want %d", got, len(tt.want))
			}
			for i, want := range tt.want {
				got, err := q.PopWithTimeout(0)
				if err != nil {
					t.Fatalf("Pop %d returned error: %v", i, err)
				}
				if got != want {
					t.Errorf("Pop %d = %d, want %d (oldest must be overwritten)", i, got, want)
				}
			}
		})
	}
}

func TestPush_CountStaysAtCapacity(t *testing.T) {
	q, _ := New[int](3)

	for i := 1; i <= 10; i++ {
		q.Push(i)
		if got := q.Count(); got > 3 {
			t.Fatalf("Count() after Push(%d) = %d, must never exceed capacity 3", i, got)
		}
	}

	if got := q.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3 (full)", got)
	}
	if !q.IsFull() {
		t.Error("queue should be full after overflow pushes")
	}
}

func TestPush_WrapAroundIntegrity(t *testing.T) {
	q, _ := New[int](4)

	// Interleave pushes and pops so head and tail wrap several times.
	next := 1
	for round := 0; round < 5; round++ {
		q.Push(next)
		q.Push(next + 1)
		if got := q.Pop(); got != next {
			t.Fatalf("round %d: Pop() = %d, want %d", round, got, next)
		}
		if got := q.Pop(); got != next+1 {
			t.Fatalf("round %d: Pop() = %d, want %d", round, got, next+1)
		}
		next += 2
	}

	if !q.IsEmpty() {
		t.Errorf("queue should be empty, Count() = %d", q.Count())
	}
}

// =============================================================================
// Pop Tests
// =============================================================================

func TestPop_BlocksUntilPush(t *testing.T) {
	q, _ := New[int](5)

	const delay = 50 * time.Millisecond
	start := time.Now()

	done := make(chan int, 1)
	go func() {
		done <- q.Pop()
	}()

	// Producer sleeps before pushing; the consumer must not return early.
	time.Sleep(delay)
	q.Push(5)

	select {
	case got := <-done:
		if got != 5 {
			t.Errorf("Pop() = %d, want 5", got)
		}
		if elapsed := time.Since(start); elapsed < delay {
			t.Errorf("Pop returned after %v, before the Push at %v", elapsed, delay)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not return after Push")
	}
}

func TestPop_DrainsInOrder(t *testing.T) {
	q, _ := New[string](8)
	items := []string{"a", "b", "c", "d", "e"}

	for _, s := range items {
		q.Push(s)
	}
	for i, want := range items {
		if got := q.Pop(); got != want {
			t.Errorf("Pop %d = %q, want %q (FIFO order)", i, got, want)
		}
	}
}

// =============================================================================
// PopWithTimeout Tests
// =============================================================================

func TestPopWithTimeout_ExpiresOnEmpty(t *testing.T) {
	q, _ := New[int](2)

	const timeout = 100 * time.Millisecond
	start := time.Now()

	v, err := q.PopWithTimeout(timeout)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("PopWithTimeout on empty = (%d, %v), want ErrTimeout", v, err)
	}
	if v != 0 {
		t.Errorf("PopWithTimeout returned %d, want zero value on timeout", v)
	}
	if elapsed < timeout {
		t.Errorf("returned after %v, want at least %v", elapsed, timeout)
	}

	// The queue must still work: a push makes the next bounded pop succeed.
	q.Push(1)
	got, err := q.PopWithTimeout(timeout)
	if err != nil || got != 1 {
		t.Errorf("PopWithTimeout after Push = (%d, %v), want (1, nil)", got, err)
	}
}

func TestPopWithTimeout_ReturnsAvailableElement(t *testing.T) {
	q, _ := New[int](4)
	q.Push(42)

	v, err := q.PopWithTimeout(time.Second)
	if err != nil || v != 42 {
		t.Errorf("PopWithTimeout = (%d, %v), want (42, nil)", v, err)
	}
}

func TestPopWithTimeout_ZeroDurationPolls(t *testing.T) {
	t.Run("empty_returns_immediately", func(t *testing.T) {
		q, _ := New[int](2)

		start := time.Now()
		_, err := q.PopWithTimeout(0)
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("PopWithTimeout(0) error = %v, want ErrTimeout", err)
		}
		if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
			t.Errorf("PopWithTimeout(0) took %v, must not suspend", elapsed)
		}
	})

	t.Run("non_empty_returns_element", func(t *testing.T) {
		q, _ := New[int](2)
		q.Push(7)

		v, err := q.PopWithTimeout(0)
		if err != nil || v != 7 {
			t.Errorf("PopWithTimeout(0) = (%d, %v), want (7, nil)", v, err)
		}
	})

	t.Run("negative_duration_polls", func(t *testing.T) {
		q, _ := New[int](2)

		if _, err := q.PopWithTimeout(-time.Second); !errors.Is(err, ErrTimeout) {
			t.Errorf("PopWithTimeout(-1s) error = %v, want ErrTimeout", err)
		}

		q.Push(9)
		v, err := q.PopWithTimeout(-time.Second)
		if err != nil || v != 9 {
			t.Errorf("PopWithTimeout(-1s) = (%d, %v), want (9, nil)", v, err)
		}
	})
}

func TestPopWithTimeout_LeavesStateUntouched(t *testing.T) {
	q, _ := New[int](4)

	// Walk head off index 0 so a botched timeout path would corrupt order.
	q.Push(1)
	q.Push(2)
	q.Push(3)
	q.Pop()
	q.Pop()
	q.Pop()

	before := q.Stats()
	if _, err := q.PopWithTimeout(20 * time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Fatalf("PopWithTimeout error = %v, want ErrTimeout", err)
	}
	after := q.Stats()

	if after.Depth != before.Depth || after.Pushed != before.Pushed ||
		after.Popped != before.Popped || after.Dropped != before.Dropped {
		t.Errorf("timeout changed queue state: before %+v, after %+v", before, after)
	}
	if after.ExpiredWaits != before.ExpiredWaits+1 {
		t.Errorf("ExpiredWaits = %d, want %d", after.ExpiredWaits, before.ExpiredWaits+1)
	}

	// Order must survive the failed wait.
	q.Push(10)
	q.Push(11)
	if got := q.Pop(); got != 10 {
		t.Errorf("Pop after timeout = %d, want 10", got)
	}
	if got := q.Pop(); got != 11 {
		t.Errorf("Pop after timeout = %d, want 11", got)
	}
}

func TestPopWithTimeout_WokenByLatePush(t *testing.T) {
	q, _ := New[int](2)

	done := make(chan struct{})
	var v int
	var err error
	go func() {
		defer close(done)
		v, err = q.PopWithTimeout(2 * time.Second)
	}()

	time.Sleep(30 * time.Millisecond)
	q.Push(33)

	select {
	case <-done:
		if err != nil || v != 33 {
			t.Errorf("PopWithTimeout = (%d, %v), want (33, nil)", v, err)
		}
	case <-time.After(time.Second):
		t.Fatal("PopWithTimeout did not wake on Push")
	}
}

// =============================================================================
// Count / Size Tests
// =============================================================================

func TestCount(t *testing.T) {
	q, _ := New[int](3)

	q.Push(1)
	q.Push(2)
	if got := q.Count(); got != 2 {
		t.Errorf("Count() after 2 pushes = %d, want 2", got)
	}

	q.Pop()
	if got := q.Count(); got != 1 {
		t.Errorf("Count() after pop = %d, want 1", got)
	}

	q.Pop()
	if got := q.Count(); got != 0 {
		t.Errorf("Count() after draining = %d, want 0", got)
	}
}

func TestSize_ConstantThroughOperations(t *testing.T) {
	q, _ := New[int](3)

	if got := q.Size(); got != 3 {
		t.Fatalf("Size() = %d, want 3", got)
	}

	for i := 0; i < 10; i++ {
		q.Push(i)
		if got := q.Size(); got != 3 {
			t.Errorf("Size() after Push(%d) = %d, want 3 (capacity is fixed)", i, got)
		}
	}
	q.Pop()
	q.Drain()
	if got := q.Size(); got != 3 {
		t.Errorf("Size() after drain = %d, want 3", got)
	}
}

// =============================================================================
// IsEmpty / IsFull Tests
// =============================================================================

func TestIsEmptyIsFull(t *testing.T) {
	q, _ := New[int](2)

	if !q.IsEmpty() || q.IsFull() {
		t.Error("new queue should be empty and not full")
	}

	q.Push(1)
	if q.IsEmpty() || q.IsFull() {
		t.Error("queue with one of two slots used should be neither empty nor full")
	}

	q.Push(2)
	if !q.IsFull() {
		t.Error("queue at capacity should be full")
	}

	q.Push(3) // overwrite keeps it full
	if !q.IsFull() {
		t.Error("queue must stay full across an overwriting push")
	}

	q.Pop()
	q.Pop()
	if !q.IsEmpty() {
		t.Error("drained queue should be empty")
	}
}

// =============================================================================
// Stats Tests
// =============================================================================

func TestStats_Accounting(t *testing.T) {
	q, _ := New[int](2)

	q.Push(1)
	q.Push(2)
	q.Push(3) // drops 1
	q.Pop()
	if _, err := q.PopWithTimeout(0); err != nil {
		t.Fatalf("PopWithTimeout = %v, want element", err)
	}
	if _, err := q.PopWithTimeout(0); !errors.Is(err, ErrTimeout) {
		t.Fatalf("PopWithTimeout on empty = %v, want ErrTimeout", err)
	}

	got := q.Stats()
	want := Stats{
		Depth:        0,
		Capacity:     2,
		Pushed:       3,
		Popped:       2,
		Dropped:      1,
		ExpiredWaits: 1,
	}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestStats_Conservation(t *testing.T) {
	q, _ := New[int](4)

	for i := 0; i < 25; i++ {
		q.Push(i)
		if i%3 == 0 {
			q.PopWithTimeout(0)
		}
	}

	s := q.Stats()
	if s.Pushed != s.Popped+s.Dropped+uint64(s.Depth) {
		t.Errorf("conservation violated: pushed %d != popped %d + dropped %d + depth %d",
			s.Pushed, s.Popped, s.Dropped, s.Depth)
	}
}

// =============================================================================
// Drain Tests
// =============================================================================

func TestDrain(t *testing.T) {
	t.Run("returns_all_in_order", func(t *testing.T) {
		q, _ := New[int](8)
		for i := 1; i <= 5; i++ {
			q.Push(i)
		}

		got := q.Drain()
		want := []int{1, 2, 3, 4, 5}
		if len(got) != len(want) {
			t.Fatalf("Drain() returned %d elements, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Drain()[%d] = %d, want %d", i, got[i], want[i])
			}
		}
		if !q.IsEmpty() {
			t.Error("queue should be empty after Drain")
		}
	})

	t.Run("empty_queue_yields_nil", func(t *testing.T) {
		q, _ := New[int](4)
		if got := q.Drain(); got != nil {
			t.Errorf("Drain() on empty = %v, want nil", got)
		}
	})

	t.Run("after_overflow", func(t *testing.T) {
		q, _ := New[int](3)
		for i := 1; i <= 5; i++ {
			q.Push(i)
		}
		got := q.Drain()
		want := []int{3, 4, 5}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Drain()[%d] = %d, want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("usable_after_drain", func(t *testing.T) {
		q, _ := New[int](2)
		q.Push(1)
		q.Drain()

		q.Push(2)
		if got := q.Pop(); got != 2 {
			t.Errorf("Pop after Drain = %d, want 2", got)
		}
	})
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestConcurrency_ProducersNeverBlock(t *testing.T) {
	q, _ := New[int](16)

	var wg sync.WaitGroup
	producers := 4
	itemsPerProducer := 10000

	start := time.Now()
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				q.Push(id*itemsPerProducer + i)
			}
		}(p)
	}
	wg.Wait()

	// No consumer ran at all; pushes must still have completed promptly.
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("producers took %v with no consumers; Push must never block", elapsed)
	}

	s := q.Stats()
	total := uint64(producers * itemsPerProducer)
	if s.Pushed != total {
		t.Errorf("Pushed = %d, want %d", s.Pushed, total)
	}
	if s.Depth != 16 {
		t.Errorf("Depth = %d, want full queue (16)", s.Depth)
	}
	if s.Dropped != total-16 {
		t.Errorf("Dropped = %d, want %d", s.Dropped, total-16)
	}
}

func TestConcurrency_AllBlockedConsumersWake(t *testing.T) {
	q, _ := New[int](8)

	consumers := 4
	var wg sync.WaitGroup
	var woken atomic.Int64

	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Pop()
			woken.Add(1)
		}()
	}

	// Let every consumer park on the empty queue, then push a burst. Each
	// push wakes one consumer directly or via the forwarded signal; no
	// consumer may stay stranded while elements remain.
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < consumers; i++ {
		q.Push(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("only %d of %d blocked consumers woke after %d pushes",
			woken.Load(), consumers, consumers)
	}

	if got := q.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0 after every consumer popped once", got)
	}
}

func TestConcurrency_MixedProducerConsumer(t *testing.T) {
	q, _ := New[int](128)

	var wg sync.WaitGroup
	var consumed atomic.Int64

	producers := 4
	consumers := 4
	itemsPerProducer := 2000

	var mu sync.Mutex
	lastSeen := make(map[int]int) // producer id -> last sequence popped

	stop := make(chan struct{})
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, err := q.PopWithTimeout(20 * time.Millisecond)
				if err != nil {
					select {
					case <-stop:
						return
					default:
						continue
					}
				}
				consumed.Add(1)

				// Retained elements keep push order, so per producer the
				// popped sequence numbers must be strictly increasing.
				id, seq := v/itemsPerProducer, v%itemsPerProducer
				mu.Lock()
				if last, ok := lastSeen[id]; ok && seq <= last {
					t.Errorf("producer %d: popped seq %d after %d (FIFO violated)", id, seq, last)
				}
				lastSeen[id] = seq
				mu.Unlock()
			}
		}()
	}

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(id int) {
			defer pwg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				q.Push(id*itemsPerProducer + i)
			}
		}(p)
	}
	pwg.Wait()

	// Give consumers time to empty the queue, then release them.
	for q.Count() > 0 {
		time.Sleep(5 * time.Millisecond)
	}
	close(stop)
	wg.Wait()

	s := q.Stats()
	if s.Pushed != uint64(producers*itemsPerProducer) {
		t.Errorf("Pushed = %d, want %d", s.Pushed, producers*itemsPerProducer)
	}
	if s.Popped != uint64(consumed.Load()) {
		t.Errorf("Popped = %d, consumers saw %d", s.Popped, consumed.Load())
	}
	if s.Pushed != s.Popped+s.Dropped+uint64(s.Depth) {
		t.Errorf("conservation violated: %+v", s)
	}
}

func TestConcurrency_CountNeverExceedsCapacity(t *testing.T) {
	q, _ := New[int](8)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for p := 0; p < 3; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
					q.Push(i)
				}
			}
		}()
	}

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case <-deadline:
			close(stop)
			wg.Wait()
			return
		default:
			if got := q.Count(); got < 0 || got > 8 {
				close(stop)
				wg.Wait()
				t.Fatalf("Count() = %d, want within [0, 8]", got)
			}
		}
	}
}

// =============================================================================
// Generic Type Tests
// =============================================================================

func TestQueue_StringType(t *testing.T) {
	q, _ := New[string](2)

	q.Push("hello")
	q.Push("world")
	q.Push("again") // overwrites "hello"

	if got := q.Pop(); got != "world" {
		t.Errorf("first Pop() = %q, want \"world\"", got)
	}
	if got := q.Pop(); got != "again" {
		t.Errorf("second Pop() = %q, want \"again\"", got)
	}
}

func TestQueue_StructType(t *testing.T) {
	type reading struct {
		Sensor string
		Value  float64
	}

	q, _ := New[reading](4)

	q.Push(reading{Sensor: "temp", Value: 21.5})
	q.Push(reading{Sensor: "hum", Value: 40.0})

	// Elements are copied in and out; mutating the original must not
	// affect the buffered copy.
	r := reading{Sensor: "wind", Value: 3.2}
	q.Push(r)
	r.Value = 99.9

	if got := q.Pop(); got.Sensor != "temp" || got.Value != 21.5 {
		t.Errorf("Pop() = %+v, want {temp 21.5}", got)
	}
	q.Pop()
	if got := q.Pop(); got.Value != 3.2 {
		t.Errorf("Pop() = %+v, want the value copied at push time (3.2)", got)
	}
}

func TestQueue_PointerType(t *testing.T) {
	q, _ := New[*int](2)

	v := 42
	q.Push(&v)
	q.Push(nil)

	got := q.Pop()
	if got == nil || *got != 42 {
		t.Error("Pop() should return the stored pointer")
	}
	if got := q.Pop(); got != nil {
		t.Errorf("Pop() = %v, want nil pointer", got)
	}
}
