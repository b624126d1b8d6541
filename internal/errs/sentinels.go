// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated indicates the request carries no usable identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the caller's capabilities or ownership are insufficient.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates inconsistent client input (e.g. mismatched passwords).
	ErrValidation = errors.New("validation failed")

	// ErrTokenInvalid indicates a malformed or badly signed session token.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrResetToken indicates an absent, mismatched or expired password-reset token.
	ErrResetToken = errors.New("invalid or expired reset token")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)
