// Package detail fetches per-item supplemental data (wear condition,
// pattern seed, phase) with bounded retry and backoff.
//
// # Retry State Machine
//
// A fetch moves through Idle -> Attempting -> {Success | BackingOff ->
// Attempting | Exhausted}. A courtesy delay is slept before the first
// attempt. After a failure the wait is base(errorClass) x attempt plus
// jitter, where rate-limit signals earn a base of tens of seconds and
// everything else a couple of seconds, and the underlying provider
// transport is recreated for the next attempt. After the configured
// maximum number of attempts the fetch fails terminally with
// ErrExhausted.
//
// The backoff is a pluggable function of attempt count and error class.
// LegacyLinearBackoff preserves a previously observed policy for
// comparison under test; CanonicalBackoff is the wired default.
//
// All waits honor context cancellation.
package detail
