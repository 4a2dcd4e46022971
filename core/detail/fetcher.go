package detail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Fetch errors.
var (
	// ErrRateLimited should be wrapped by providers when the remote end
	// signals rate limiting; it selects the long backoff base.
	ErrRateLimited = errors.New("detail provider rate limited")
	// ErrUnavailable is returned by providers when the item simply has
	// no detail record. It is terminal and not retried.
	ErrUnavailable = errors.New("detail record unavailable")
	// ErrExhausted is the terminal error after the configured maximum
	// number of attempts all failed.
	ErrExhausted = errors.New("detail fetch attempts exhausted")
)

// State names the fetcher's position in its retry state machine.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateBackingOff State = "backing_off"
	StateSuccess    State = "success"
	StateExhausted  State = "exhausted"
)

// Provider fetches one detail record by its opaque handle.
type Provider interface {
	FetchDetail(ctx context.Context, handle string) (Record, error)
}

// ProviderFactory builds a fresh provider. The fetcher recreates the
// underlying transport after every failure.
type ProviderFactory func() Provider

// Config holds configuration for the detail fetcher.
type Config struct {
	// CourtesyDelayMS is slept before the first attempt of every fetch
	// to stay polite with the provider.
	CourtesyDelayMS int `mapstructure:"courtesy_delay_ms" default:"500"`
	// MaxAttempts caps consecutive failed attempts before Exhausted.
	MaxAttempts int `mapstructure:"max_attempts" default:"5"`
}

// Fetcher retrieves detail records with bounded retry and backoff.
// State machine: Idle -> Attempting -> {Success | BackingOff ->
// Attempting | Exhausted}.
type Fetcher struct {
	factory     ProviderFactory
	backoff     BackoffFunc
	courtesy    time.Duration
	maxAttempts int
	log         *zap.Logger

	// sleep is injected in tests; it must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error

	state State
}

// NewFetcher creates a fetcher using the canonical backoff policy unless
// another BackoffFunc is supplied.
func NewFetcher(cfg Config, factory ProviderFactory, backoff BackoffFunc, log *zap.Logger) *Fetcher {
	if backoff == nil {
		backoff = CanonicalBackoff(nil)
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		factory:     factory,
		backoff:     backoff,
		courtesy:    time.Duration(cfg.CourtesyDelayMS) * time.Millisecond,
		maxAttempts: maxAttempts,
		log:         log,
		sleep:       sleepCtx,
		state:       StateIdle,
	}
}

// State returns the fetcher's current state.
func (f *Fetcher) State() State { return f.state }

// Fetch retrieves the record for handle, retrying failed attempts with
// backoff until MaxAttempts is reached. All waits are cancellable
// through ctx. ErrUnavailable is terminal immediately; everything else
// retries, ending in one ErrExhausted after the final failure.
func (f *Fetcher) Fetch(ctx context.Context, handle string) (Record, error) {
	if err := f.sleep(ctx, f.courtesy); err != nil {
		return Record{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		f.state = StateAttempting

		provider := f.factory()
		rec, err := provider.FetchDetail(ctx, handle)
		if err == nil {
			f.state = StateSuccess
			return rec, nil
		}
		if errors.Is(err, ErrUnavailable) {
			f.state = StateSuccess
			return Record{}, err
		}
		if ctx.Err() != nil {
			return Record{}, ctx.Err()
		}
		lastErr = err

		class := classify(err)
		f.log.Warn("detail fetch attempt failed",
			zap.String("handle", handle),
			zap.Int("attempt", attempt),
			zap.Bool("rate_limited", class == ClassRateLimited),
			zap.Error(err))

		if attempt == f.maxAttempts {
			break
		}

		f.state = StateBackingOff
		if err := f.sleep(ctx, f.backoff(attempt, class)); err != nil {
			return Record{}, err
		}
	}

	f.state = StateExhausted
	return Record{}, fmt.Errorf("%w after %d attempts: %v", ErrExhausted, f.maxAttempts, lastErr)
}

func classify(err error) ErrorClass {
	if errors.Is(err, ErrRateLimited) {
		return ClassRateLimited
	}
	return ClassTransient
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
