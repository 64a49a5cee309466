// Package auth provides the shared-secret API key authentication for the
// Stockroom inventory server.
package auth

import "errors"

// Authentication errors.
var (
	// ErrMissingAPIKey indicates the request carries no API key header.
	ErrMissingAPIKey = errors.New("missing API key header")

	// ErrInvalidAPIKey indicates the supplied API key header does not match.
	ErrInvalidAPIKey = errors.New("invalid API key")
)
