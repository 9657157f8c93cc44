package services

import "errors"

// Sentinel errors making up the service-level taxonomy. Handlers
// translate these to HTTP statuses; anything else is a dependency
// failure and surfaces as 500 without leaking store internals.
var (
	ErrInvalidInput = errors.New("missing or malformed input")
	ErrConflict     = errors.New("user already exists")

	// ErrInvalidCredentials is shared by unknown-email and wrong-password
	// so login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrExpired covers OTP codes and reset tokens that are
	// unknown, expired, or already consumed; callers cannot tell which.
	ErrInvalidOrExpired = errors.New("invalid or expired")

	ErrNotFound = errors.New("not found")
)
