package unique

import "errors"

var (
	// ErrWorkerIDOutOfRange is returned by NewNode when the worker ID does
	// not fit in the configured node bits.
	ErrWorkerIDOutOfRange = errors.New("worker id out of range for node bits")

	// ErrBitLayoutInvalid is returned by NewNode when node and step bits
	// leave no room for the timestamp.
	ErrBitLayoutInvalid = errors.New("total bits must exceed node + step bits")
)
