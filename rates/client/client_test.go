package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyglobal/fxcore/currency"
	"github.com/studyglobal/fxcore/rates/cache"
	"github.com/studyglobal/fxcore/rates/quota"
	"github.com/studyglobal/fxcore/rates/types"
)

// newTestResolver creates a resolver with a fast retry budget
func newTestResolver(
	t *testing.T,
	provider Provider,
	quotaLimit int,
) (*Resolver, *cache.Cache, *quota.Tracker) {
	t.Helper()

	rateCache, err := cache.New(time.Minute)
	require.NoError(t, err)

	tracker, err := quota.New(quotaLimit, time.Hour)
	require.NoError(t, err)

	r, err := New(
		provider,
		rateCache,
		tracker,
		WithBaseDelay(time.Millisecond),
		WithAttemptTimeout(time.Second),
		WithProbeTimeout(time.Second),
	)
	require.NoError(t, err)

	return r, rateCache, tracker
}

func TestResolver_New(t *testing.T) {
	t.Parallel()

	rateCache, err := cache.New(time.Minute)
	require.NoError(t, err)

	tracker, err := quota.New(10, time.Hour)
	require.NoError(t, err)

	t.Run("nil provider", func(t *testing.T) {
		t.Parallel()

		r, err := New(nil, rateCache, tracker)

		assert.Nil(t, r)
		assert.ErrorIs(t, err, errInvalidProvider)
	})

	t.Run("nil cache", func(t *testing.T) {
		t.Parallel()

		r, err := New(&mockProvider{}, nil, tracker)

		assert.Nil(t, r)
		assert.ErrorIs(t, err, errInvalidCache)
	})

	t.Run("nil quota tracker", func(t *testing.T) {
		t.Parallel()

		r, err := New(&mockProvider{}, rateCache, nil)

		assert.Nil(t, r)
		assert.ErrorIs(t, err, errInvalidQuota)
	})

	t.Run("default resolver", func(t *testing.T) {
		t.Parallel()

		r, err := New(&mockProvider{}, rateCache, tracker)

		require.NoError(t, err)
		require.NotNil(t, r)

		assert.Equal(t, DefaultAttempts, r.attempts)
		assert.Equal(t, DefaultBaseDelay, r.baseDelay)
		assert.Equal(t, DefaultAttemptTimeout, r.attemptTimeout)
		assert.Equal(t, DefaultProbeTimeout, r.probeTimeout)
	})
}

func TestResolver_SameCurrency(t *testing.T) {
	t.Parallel()

	var fetchCount atomic.Int64

	provider := &mockProvider{
		fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
			fetchCount.Add(1)

			return 1500, nil
		},
	}

	r, _, tracker := newTestResolver(t, provider, 10)

	entry := r.ResolveRate(context.Background(), currency.USD, currency.USD)

	assert.InDelta(t, 1.0, entry.Rate, 0.0)
	assert.Equal(t, types.SourceFallback, entry.Source)

	// No network, no quota burn
	assert.Zero(t, fetchCount.Load())
	assert.Equal(t, 10, tracker.Remaining())
}

func TestResolver_LiveSuccess(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{
		fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
			return 1515.5, nil
		},
	}

	// A single unit of quota: the first resolution spends it
	r, _, tracker := newTestResolver(t, provider, 1)

	entry := r.ResolveRate(context.Background(), currency.USD, currency.NGN)

	assert.InDelta(t, 1515.5, entry.Rate, 0.0001)
	assert.Equal(t, types.SourceAPI, entry.Source)
	assert.Equal(t, 0, tracker.Remaining())

	// The second resolution is served from the cache,
	// tagged with how this caller obtained it
	entry = r.ResolveRate(context.Background(), currency.USD, currency.NGN)

	assert.InDelta(t, 1515.5, entry.Rate, 0.0001)
	assert.Equal(t, types.SourceCache, entry.Source)
}

func TestResolver_QuotaExhausted(t *testing.T) {
	t.Parallel()

	var fetchCount atomic.Int64

	provider := &mockProvider{
		fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
			fetchCount.Add(1)

			return 1500, nil
		},
	}

	rateCache, err := cache.New(time.Minute)
	require.NoError(t, err)

	tracker, err := quota.New(1, time.Hour)
	require.NoError(t, err)

	// Spend the entire budget up front
	require.True(t, tracker.TryReserve())

	r, err := New(provider, rateCache, tracker)
	require.NoError(t, err)

	entry := r.ResolveRate(context.Background(), currency.SEK, currency.NGN)

	// The provider is never dialed, and the static table answers
	assert.Zero(t, fetchCount.Load())
	assert.Equal(t, types.SourceFallback, entry.Source)
	assert.InDelta(
		t,
		currency.RateToUSD(currency.NGN)/currency.RateToUSD(currency.SEK),
		entry.Rate,
		0.0001,
	)
}

func TestResolver_UnhealthyLink(t *testing.T) {
	t.Parallel()

	var fetchCount atomic.Int64

	provider := &mockProvider{
		probeFn: func(_ context.Context) error {
			return errors.New("connection refused")
		},
		fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
			fetchCount.Add(1)

			return 1500, nil
		},
	}

	r, _, _ := newTestResolver(t, provider, 10)

	entry := r.ResolveRate(context.Background(), currency.USD, currency.NGN)

	// A dead link skips the retry budget entirely
	assert.Zero(t, fetchCount.Load())
	assert.Equal(t, types.SourceFallback, entry.Source)
}

func TestResolver_RetryBackoff(t *testing.T) {
	t.Parallel()

	t.Run("transient failure recovers", func(t *testing.T) {
		t.Parallel()

		var fetchCount atomic.Int64

		provider := &mockProvider{
			fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
				if fetchCount.Add(1) < 3 {
					return 0, errors.New("connection reset")
				}

				return 1500, nil
			},
		}

		r, _, _ := newTestResolver(t, provider, 10)

		entry := r.ResolveRate(context.Background(), currency.USD, currency.NGN)

		assert.Equal(t, int64(3), fetchCount.Load())
		assert.Equal(t, types.SourceAPI, entry.Source)
		assert.InDelta(t, 1500, entry.Rate, 0.0001)
	})

	t.Run("all attempts fail", func(t *testing.T) {
		t.Parallel()

		var fetchCount atomic.Int64

		provider := &mockProvider{
			fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
				fetchCount.Add(1)

				return 0, errors.New("timeout")
			},
		}

		r, _, _ := newTestResolver(t, provider, 10)

		entry := r.ResolveRate(context.Background(), currency.USD, currency.NGN)

		assert.Equal(t, int64(DefaultAttempts), fetchCount.Load())
		assert.Equal(t, types.SourceFallback, entry.Source)
	})

	t.Run("backoff delays double", func(t *testing.T) {
		t.Parallel()

		provider := &mockProvider{
			fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
				return 0, errors.New("timeout")
			},
		}

		r, _, _ := newTestResolver(t, provider, 10)

		var delays []time.Duration

		r.sleep = func(d time.Duration) {
			delays = append(delays, d)
		}

		r.ResolveRate(context.Background(), currency.USD, currency.NGN)

		require.Len(t, delays, DefaultAttempts-1)
		assert.Equal(t, time.Millisecond, delays[0])
		assert.Equal(t, 2*time.Millisecond, delays[1])
	})
}

func TestResolver_InvalidProviderRate(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{
		fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
			return -12, nil // nonsense payload
		},
	}

	r, _, _ := newTestResolver(t, provider, 10)

	entry := r.ResolveRate(context.Background(), currency.USD, currency.NGN)

	// A non-positive rate never propagates
	assert.Equal(t, types.SourceFallback, entry.Source)
	assert.Positive(t, entry.Rate)
}

func TestResolver_UnknownCurrencyFallback(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{
		fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
			return 0, errors.New("unsupported pair")
		},
	}

	r, _, _ := newTestResolver(t, provider, 10)

	// Unknown codes behave as USD equivalents in the fallback table
	entry := r.ResolveRate(context.Background(), currency.Code("XYZ"), currency.NGN)

	assert.Equal(t, types.SourceFallback, entry.Source)
	assert.InDelta(t, currency.RateToUSD(currency.NGN), entry.Rate, 0.0001)
}

func TestResolver_CoalescesConcurrentRequests(t *testing.T) {
	t.Parallel()

	var (
		fetchCount atomic.Int64

		release = make(chan struct{})
	)

	provider := &mockProvider{
		fetchRateFn: func(_ context.Context, _, _ currency.Code) (float64, error) {
			fetchCount.Add(1)
			<-release

			return 1500, nil
		},
	}

	r, _, tracker := newTestResolver(t, provider, 100)

	const callers = 20

	var (
		wg sync.WaitGroup

		results = make([]types.Entry, callers)
	)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i] = r.ResolveRate(context.Background(), currency.SEK, currency.NGN)
		}()
	}

	// Give the callers time to pile onto the in-flight fetch
	assert.Eventually(
		t,
		func() bool {
			return fetchCount.Load() == 1
		},
		time.Second,
		5*time.Millisecond,
	)

	// Let the remaining callers join the in-flight group
	time.Sleep(50 * time.Millisecond)

	close(release)
	wg.Wait()

	// One live call, one unit of quota, twenty identical answers
	assert.Equal(t, int64(1), fetchCount.Load())
	assert.Equal(t, 99, tracker.Remaining())

	for _, entry := range results {
		assert.Equal(t, types.SourceAPI, entry.Source)
		assert.InDelta(t, 1500, entry.Rate, 0.0001)
	}
}
