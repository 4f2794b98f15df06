package collector

import "errors"

var (
	ErrNilQueue      = errors.New("collector requires a queue")
	ErrNilNode       = errors.New("collector requires an id node")
	ErrInvalidConfig = errors.New("invalid collector config")
)
