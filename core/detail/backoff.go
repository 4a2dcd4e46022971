package detail

import (
	"math/rand"
	"time"
)

// ErrorClass partitions fetch failures for backoff purposes.
type ErrorClass int

const (
	// ClassTransient is any failure without a rate-limit signal.
	ClassTransient ErrorClass = iota
	// ClassRateLimited is a failure the provider flagged as rate
	// limiting; it earns a much longer wait.
	ClassRateLimited
)

// BackoffFunc computes the wait after a failed attempt (1-based) of the
// given error class.
type BackoffFunc func(attempt int, class ErrorClass) time.Duration

// Canonical backoff bases. Rate-limit signals wait tens of seconds per
// attempt; everything else waits a couple of seconds per attempt.
const (
	rateLimitBase = 60 * time.Second
	transientBase = 2 * time.Second
	maxJitter     = time.Second
)

// CanonicalBackoff returns the rate-limit-aware policy:
// base(class) x attempt + jitter, jitter uniform in [0, 1s).
// A nil jitter source falls back to the shared rand source.
func CanonicalBackoff(rng *rand.Rand) BackoffFunc {
	jitter := func() time.Duration {
		if rng != nil {
			return time.Duration(rng.Int63n(int64(maxJitter)))
		}
		return time.Duration(rand.Int63n(int64(maxJitter)))
	}
	return func(attempt int, class ErrorClass) time.Duration {
		base := transientBase
		if class == ClassRateLimited {
			base = rateLimitBase
		}
		return base*time.Duration(attempt) + jitter()
	}
}

// LegacyLinearBackoff is the previously observed policy. Its original
// formula dressed the wait up in extra terms that cancel out, leaving a
// plain per-attempt linear wait with no rate-limit awareness. It is kept
// for comparison under test and is not wired into any fetcher.
func LegacyLinearBackoff(base time.Duration) BackoffFunc {
	return func(attempt int, _ ErrorClass) time.Duration {
		return base * time.Duration(attempt)
	}
}
