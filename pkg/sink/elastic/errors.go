package elastic

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid elasticsearch sink config")
	ErrClientInit        = errors.New("failed to initialize elasticsearch client")
	ErrEncodeFailed      = errors.New("failed to encode document")
	ErrBulkRequestFailed = errors.New("bulk request failed")
	ErrDecodeFailed      = errors.New("failed to decode bulk response")
	ErrPartialFailure    = errors.New("bulk request rejected some documents")
)
