package detail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedProvider fails a fixed number of times before succeeding.
type scriptedProvider struct {
	failures *int
	failWith error
	record   Record
}

func (p *scriptedProvider) FetchDetail(_ context.Context, _ string) (Record, error) {
	if *p.failures > 0 {
		*p.failures--
		return Record{}, p.failWith
	}
	return p.record, nil
}

// testFetcher wires a fetcher with recorded sleeps and a counting factory.
func testFetcher(t *testing.T, cfg Config, provider Provider, backoff BackoffFunc) (*Fetcher, *[]time.Duration, *int) {
	t.Helper()

	factoryCalls := 0
	f := NewFetcher(cfg, func() Provider {
		factoryCalls++
		return provider
	}, backoff, zap.NewNop())

	var sleeps []time.Duration
	f.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}

	return f, &sleeps, &factoryCalls
}

func TestFetchSucceedsFirstAttempt(t *testing.T) {
	cond := 0.123
	failures := 0
	provider := &scriptedProvider{failures: &failures, record: Record{Condition: &cond, PatternSeed: 442}}

	f, sleeps, factoryCalls := testFetcher(t, Config{CourtesyDelayMS: 500, MaxAttempts: 5}, provider, nil)

	rec, err := f.Fetch(context.Background(), "handle-1")
	require.NoError(t, err)
	assert.Equal(t, 442, rec.PatternSeed)
	assert.Equal(t, StateSuccess, f.State())

	// Only the courtesy delay was slept.
	require.Len(t, *sleeps, 1)
	assert.Equal(t, 500*time.Millisecond, (*sleeps)[0])
	assert.Equal(t, 1, *factoryCalls)
}

func TestFetchBackoffMatchesFormula(t *testing.T) {
	// 3 forced failures then success: exactly 3 backoff waits, each
	// base x attempt with zero jitter.
	failures := 3
	provider := &scriptedProvider{failures: &failures, failWith: errors.New("boom"), record: Record{PatternSeed: 7}}

	backoff := func(attempt int, class ErrorClass) time.Duration {
		assert.Equal(t, ClassTransient, class)
		return time.Duration(attempt) * 2 * time.Second
	}
	f, sleeps, factoryCalls := testFetcher(t, Config{CourtesyDelayMS: 100, MaxAttempts: 5}, provider, backoff)

	rec, err := f.Fetch(context.Background(), "handle-2")
	require.NoError(t, err)
	assert.Equal(t, 7, rec.PatternSeed)

	want := []time.Duration{
		100 * time.Millisecond, // courtesy
		2 * time.Second,        // attempt 1
		4 * time.Second,        // attempt 2
		6 * time.Second,        // attempt 3
	}
	assert.Equal(t, want, *sleeps)

	// The transport is recreated per attempt.
	assert.Equal(t, 4, *factoryCalls)
}

func TestFetchRateLimitClass(t *testing.T) {
	failures := 1
	provider := &scriptedProvider{
		failures: &failures,
		failWith: fmt.Errorf("status 429: %w", ErrRateLimited),
	}

	var classes []ErrorClass
	backoff := func(_ int, class ErrorClass) time.Duration {
		classes = append(classes, class)
		return 0
	}
	f, _, _ := testFetcher(t, Config{MaxAttempts: 3}, provider, backoff)

	_, err := f.Fetch(context.Background(), "handle-3")
	require.NoError(t, err)
	assert.Equal(t, []ErrorClass{ClassRateLimited}, classes)
}

func TestFetchExhaustion(t *testing.T) {
	failures := 100
	provider := &scriptedProvider{failures: &failures, failWith: errors.New("down")}

	f, sleeps, factoryCalls := testFetcher(t, Config{CourtesyDelayMS: 0, MaxAttempts: 4}, provider, LegacyLinearBackoff(time.Second))

	_, err := f.Fetch(context.Background(), "handle-4")
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, StateExhausted, f.State())

	// Exactly maxAttempts attempts, no backoff after the final failure.
	assert.Equal(t, 4, *factoryCalls)
	assert.Equal(t, 96, failures)
	require.Len(t, *sleeps, 4) // courtesy + 3 backoffs
	assert.Equal(t, []time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second}, *sleeps)
}

func TestFetchUnavailableIsTerminal(t *testing.T) {
	failures := 1
	provider := &scriptedProvider{failures: &failures, failWith: ErrUnavailable}

	f, _, factoryCalls := testFetcher(t, Config{MaxAttempts: 5}, provider, nil)

	_, err := f.Fetch(context.Background(), "handle-5")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, *factoryCalls)
}

func TestFetchCancellableDuringBackoff(t *testing.T) {
	failures := 10
	provider := &scriptedProvider{failures: &failures, failWith: errors.New("down")}

	ctx, cancel := context.WithCancel(context.Background())

	f := NewFetcher(Config{MaxAttempts: 5}, func() Provider { return provider }, nil, zap.NewNop())
	f.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := f.Fetch(ctx, "handle-6")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCanonicalBackoffBases(t *testing.T) {
	b := CanonicalBackoff(nil)

	transient := b(2, ClassTransient)
	assert.GreaterOrEqual(t, transient, 4*time.Second)
	assert.Less(t, transient, 5*time.Second)

	limited := b(2, ClassRateLimited)
	assert.GreaterOrEqual(t, limited, 120*time.Second)
	assert.Less(t, limited, 121*time.Second)
}

func TestLegacyLinearBackoffIgnoresClass(t *testing.T) {
	b := LegacyLinearBackoff(3 * time.Second)
	assert.Equal(t, b(2, ClassTransient), b(2, ClassRateLimited))
	assert.Equal(t, 6*time.Second, b(2, ClassTransient))
}

func TestRecordHasCondition(t *testing.T) {
	v := 0.5
	assert.True(t, Record{Condition: &v}.HasCondition())
	out := 1.5
	assert.False(t, Record{Condition: &out}.HasCondition())
	assert.False(t, Record{}.HasCondition())
}
