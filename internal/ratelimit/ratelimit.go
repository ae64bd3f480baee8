// Package ratelimit guards the public question endpoint. Answering one
// question fans out to the vector index and the history store, so a single
// chatty client can crowd out everyone else; the limiter caps how fast any
// one client may ask.
//
// MemoryLimiter is the only implementation and is per-process. The Limiter
// interface is the seam for a shared backend if kotae ever runs more than
// one replica behind a balancer.
package ratelimit

import "context"

// Limiter decides whether the request identified by key may proceed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	// Allow reports whether the request should proceed. The key is opaque;
	// the HTTP middleware derives it from the client IP. An error means the
	// limiter itself broke — callers fail open rather than refusing
	// questions because bookkeeping did.
	Allow(ctx context.Context, key string) (bool, error)

	// Close releases any background resources.
	Close() error
}

// NoopLimiter permits everything. It stands in when rate limiting is
// disabled so callers never branch on a nil limiter.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

func (NoopLimiter) Close() error { return nil }
