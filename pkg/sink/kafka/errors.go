package kafka

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid kafka sink config")
	ErrProducerInit  = errors.New("failed to create kafka producer")
	ErrEncodeFailed  = errors.New("failed to encode element")
	ErrPublishFailed = errors.New("failed to publish batch to kafka")
)
