package client

import "errors"

var (
	// ErrTransport covers unreachable endpoints, non-2xx statuses and broken streams.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse means the endpoint answered but the body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)
