// Package sink defines the delivery contract for batches drained from a
// queue, plus a minimal io.Writer implementation. Backend sinks (Kafka,
// Redis Streams, MongoDB, Elasticsearch) live in subpackages.
package sink

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// Sink delivers batches of elements to a backend. Implementations must
// tolerate concurrent Write calls: the pipeline fans batches out from
// several workers at once.
type Sink[T any] interface {
	// Name identifies the sink in logs and metrics.
	Name() string

	// Write delivers one batch. Write must not retain the slice; the
	// caller decides whether a failed batch is retried or dropped.
	Write(ctx context.Context, batch []T) error

	// Close releases backend resources. No Write follows Close.
	Close() error
}

var _ Sink[int] = (*Writer[int])(nil)

// Writer encodes each element as one JSON line on an io.Writer. Meant for
// demos, tests and debugging rather than production delivery.
type Writer[T any] struct {
	name string

	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer sink with the given name.
func NewWriter[T any](name string, w io.Writer) *Writer[T] {
	return &Writer[T]{
		name: name,
		enc:  json.NewEncoder(w),
	}
}

// Name returns the sink name.
func (s *Writer[T]) Name() string { return s.name }

// Write encodes the batch as JSON lines.
func (s *Writer[T]) Write(_ context.Context, batch []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range batch {
		if err := s.enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; the underlying writer is owned by the caller.
func (s *Writer[T]) Close() error { return nil }
