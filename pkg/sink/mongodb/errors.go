package mongodb

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid mongodb sink config")
	ErrConnectionFailed = errors.New("failed to connect to mongodb")
	ErrPingFailed       = errors.New("failed to ping mongodb")
	ErrInsertFailed     = errors.New("failed to insert batch")
)
