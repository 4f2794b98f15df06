package queue

import "errors"

var (
	// ErrInvalidCapacity is returned by New when capacity is not positive.
	ErrInvalidCapacity = errors.New("capacity must be positive")

	// ErrTimeout is returned by PopWithTimeout when the deadline expires
	// before an element arrives. The queue is left untouched.
	ErrTimeout = errors.New("timed out waiting for element")
)
