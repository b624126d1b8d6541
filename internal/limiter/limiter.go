// Package limiter defines interfaces and implementations for signin rate limiting.
package limiter

import (
	"context"
	"time"
)

// Limiter controls signin attempts and temporary lockouts per (email, ip).
type Limiter interface {
	// Allow reports whether signin is currently allowed and optional retry-after.
	Allow(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful signin.
	Success(ctx context.Context, email string, ipHash []byte) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error)
}
