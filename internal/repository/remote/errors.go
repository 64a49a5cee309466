package remote

import "errors"

// Remote store errors
var (
	// ErrUnreachable indicates the request never got a response.
	ErrUnreachable = errors.New("remote store unreachable")

	// ErrUnexpectedStatus indicates the server answered outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrBadResponse indicates a 2xx response whose body could not be parsed.
	ErrBadResponse = errors.New("malformed response body")
)
