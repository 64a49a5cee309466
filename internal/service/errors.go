// Package service provides the Stockroom business flows: registration,
// login, and inventory bookkeeping on top of the persistence facade.
package service

import "errors"

// Common service errors.
var (
	// Registration and login errors
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Inventory errors
	ErrStoreFailed      = errors.New("store operation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)
