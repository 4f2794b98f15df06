package pipeline

import "errors"

var (
	// ErrNilQueue is returned by New when no queue is supplied.
	ErrNilQueue = errors.New("pipeline requires a queue")

	// ErrNoSinks is returned by New when no sinks are supplied.
	ErrNoSinks = errors.New("pipeline requires at least one sink")

	// ErrAlreadyRunning is returned by Start after a successful Start. A
	// pipeline is single-use; it cannot be restarted after Stop either.
	ErrAlreadyRunning = errors.New("pipeline already started")

	// ErrNotRunning is returned by Stop before any Start.
	ErrNotRunning = errors.New("pipeline not started")
)
