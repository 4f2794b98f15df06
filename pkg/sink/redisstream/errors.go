package redisstream

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid redis sink config")
	ErrPingFailed    = errors.New("failed to ping redis")
	ErrEncodeFailed  = errors.New("failed to encode element")
	ErrAppendFailed  = errors.New("failed to append batch to stream")
)
