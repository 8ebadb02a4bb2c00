package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/studyglobal/fxcore/currency"
	"github.com/studyglobal/fxcore/rates/cache"
	"github.com/studyglobal/fxcore/rates/quota"
	"github.com/studyglobal/fxcore/rates/types"
)

// Defaults for the live resolution pipeline
const (
	DefaultAttempts       = 3
	DefaultBaseDelay      = time.Second
	DefaultAttemptTimeout = 5 * time.Second
	DefaultProbeTimeout   = 1500 * time.Millisecond
)

var (
	errInvalidProvider = errors.New("invalid provider")
	errInvalidCache    = errors.New("invalid rate cache")
	errInvalidQuota    = errors.New("invalid quota tracker")

	errQuotaExhausted    = errors.New("live call quota exhausted")
	errProviderUnhealthy = errors.New("provider link unhealthy")
	errAttemptsExhausted = errors.New("all live fetch attempts failed")
)

// Resolver resolves exchange rates with graceful degradation:
// live provider, then TTL cache, then the static rate table.
// ResolveRate never fails; it is the only component permitted
// to talk to the external provider
type Resolver struct {
	provider Provider
	cache    *cache.Cache
	quota    *quota.Tracker
	logger   *slog.Logger

	now   func() time.Time
	sleep func(d time.Duration)

	attempts       int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	probeTimeout   time.Duration

	flight singleflight.Group
}

// New creates a new resilient rate resolver
func New(
	provider Provider,
	rateCache *cache.Cache,
	tracker *quota.Tracker,
	opts ...Option,
) (*Resolver, error) {
	if provider == nil {
		return nil, errInvalidProvider
	}

	if rateCache == nil {
		return nil, errInvalidCache
	}

	if tracker == nil {
		return nil, errInvalidQuota
	}

	r := &Resolver{
		provider:       provider,
		cache:          rateCache,
		quota:          tracker,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		sleep:          time.Sleep,
		attempts:       DefaultAttempts,
		baseDelay:      DefaultBaseDelay,
		attemptTimeout: DefaultAttemptTimeout,
		probeTimeout:   DefaultProbeTimeout,
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// ResolveRate resolves the rate for the ordered currency pair.
// It always returns a usable entry: a live provider value when the
// quota and network allow it, a fresh cached value otherwise, and
// the static fallback table as the final backstop
func (r *Resolver) ResolveRate(ctx context.Context, from, to currency.Code) types.Entry {
	// Identity conversions never touch the pipeline
	if from == to {
		return types.Entry{
			From:       from,
			To:         to,
			Rate:       1,
			Source:     types.SourceFallback,
			ObtainedAt: r.now(),
		}
	}

	pair := types.Pair{From: from, To: to}

	// Concurrent resolutions of the same pair share one live call,
	// so a render storm burns at most one unit of quota
	raw, err, _ := r.flight.Do(pair.Key(), func() (any, error) {
		return r.fetchLive(ctx, from, to)
	})

	if err == nil {
		entry, ok := raw.(types.Entry)
		if ok {
			return entry
		}
	} else {
		r.logger.Debug(
			"live rate resolution failed",
			"pair", pair.Key(),
			"err", err,
		)
	}

	// Fall through to the cache
	if entry, ok := r.cache.Get(from, to); ok {
		entry.Source = types.SourceCache

		return entry
	}

	// Final backstop, cannot fail
	return types.Entry{
		From:       from,
		To:         to,
		Rate:       currency.RateToUSD(to) / currency.RateToUSD(from),
		Source:     types.SourceFallback,
		ObtainedAt: r.now(),
	}
}

// fetchLive runs the quota check, health probe and retried provider
// fetch. A successful result is written through to the cache
func (r *Resolver) fetchLive(ctx context.Context, from, to currency.Code) (types.Entry, error) {
	if !r.quota.TryReserve() {
		return types.Entry{}, errQuotaExhausted
	}

	// The fetch is detached from caller cancellation: an abandoned
	// caller's in-flight result still populates the cache for the next one
	fetchCtx := context.WithoutCancel(ctx)

	// Fail fast on a dead link instead of spending the retry budget
	probeCtx, probeCancel := context.WithTimeout(fetchCtx, r.probeTimeout)
	defer probeCancel()

	if err := r.provider.Probe(probeCtx); err != nil {
		return types.Entry{}, fmt.Errorf("%w: %w", errProviderUnhealthy, err)
	}

	var lastErr error

	for attempt := range r.attempts {
		attemptCtx, attemptCancel := context.WithTimeout(fetchCtx, r.attemptTimeout)

		rate, err := r.provider.FetchRate(attemptCtx, from, to)

		attemptCancel()

		if err == nil && rate > 0 {
			r.cache.Put(from, to, rate, types.SourceAPI)

			return types.Entry{
				From:       from,
				To:         to,
				Rate:       rate,
				Source:     types.SourceAPI,
				ObtainedAt: r.now(),
			}, nil
		}

		if err == nil {
			err = errMissingRate
		}

		lastErr = err

		r.logger.Debug(
			"live fetch attempt failed",
			"provider", r.provider.Name(),
			"attempt", attempt+1,
			"err", err,
		)

		if attempt < r.attempts-1 {
			// Exponential backoff: D, 2D, 4D, ...
			r.sleep(r.baseDelay << attempt)
		}
	}

	return types.Entry{}, fmt.Errorf("%w: %w", errAttemptsExhausted, lastErr)
}
