package queue

import (
	"sync"
	"testing"
	"time"
)

// ===========================================================================
// Benchmark Configuration
// ===========================================================================

// queueBenchConfig holds benchmark test configuration.
type queueBenchConfig struct {
	name     string
	capacity int
}

// benchConfigs defines the capacities for benchmarking.
var benchConfigs = []queueBenchConfig{
	{"Small/Cap64", 64},
	{"Medium/Cap1K", 1024},
	{"Large/Cap64K", 64 * 1024},
}

// ===========================================================================
// Single-Threaded Benchmarks
// ===========================================================================

// BenchmarkPush measures Push throughput, overwrite path included: once the
// queue fills, every push drops the oldest element.
func BenchmarkPush(b *testing.B) {
	for _, cfg := range benchConfigs {
		b.Run(cfg.name, func(b *testing.B) {
			q, _ := New[int](cfg.capacity)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				q.Push(i)
			}
		})
	}
}

// BenchmarkPushPop measures the Push + bounded-Pop roundtrip.
func BenchmarkPushPop(b *testing.B) {
	for _, cfg := range benchConfigs {
		b.Run(cfg.name, func(b *testing.B) {
			q, _ := New[int](cfg.capacity)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				q.Push(i)
				if _, err := q.PopWithTimeout(0); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkPopWithTimeout_Hit measures bounded pops that always find data.
func BenchmarkPopWithTimeout_Hit(b *testing.B) {
	const capacity = 1024

	q, _ := New[int](capacity)
	for i := 0; i < capacity; i++ {
		q.Push(i)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := q.PopWithTimeout(time.Second); err != nil {
			b.Fatal(err)
		}
		// Refill so the queue never empties.
		q.Push(i)
	}
}

// BenchmarkPopWithTimeout_Miss measures the zero-duration poll on empty.
func BenchmarkPopWithTimeout_Miss(b *testing.B) {
	q, _ := New[int](64)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		q.PopWithTimeout(0)
	}
}

// ===========================================================================
// Concurrent Benchmarks
// ===========================================================================

// concurrencyConfigs defines producer/consumer count combinations.
var concurrencyConfigs = []struct {
	name      string
	producers int
	consumers int
}{
	{"1P1C", 1, 1},
	{"2P2C", 2, 2},
	{"4P4C", 4, 4},
}

// BenchmarkConcurrent_PushPop measures mixed producer/consumer throughput.
func BenchmarkConcurrent_PushPop(b *testing.B) {
	const capacity = 1024

	for _, cc := range concurrencyConfigs {
		b.Run(cc.name, func(b *testing.B) {
			q, _ := New[int](capacity)
			opsPerProducer := b.N/cc.producers + 1

			b.ResetTimer()

			var pwg sync.WaitGroup
			pwg.Add(cc.producers)
			for p := 0; p < cc.producers; p++ {
				go func(id int) {
					defer pwg.Done()
					for i := 0; i < opsPerProducer; i++ {
						q.Push(id*opsPerProducer + i)
					}
				}(p)
			}

			stop := make(chan struct{})
			var cwg sync.WaitGroup
			cwg.Add(cc.consumers)
			for c := 0; c < cc.consumers; c++ {
				go func() {
					defer cwg.Done()
					for {
						if _, err := q.PopWithTimeout(time.Millisecond); err != nil {
							select {
							case <-stop:
								return
							default:
							}
						}
					}
				}()
			}

			pwg.Wait()
			close(stop)
			cwg.Wait()
		})
	}
}
