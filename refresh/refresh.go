// Package refresh keeps popular currency pairs warm in the rate
// cache, so bursts of simultaneously rendered price widgets hit a
// fresh cached rate instead of racing to the live provider
package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/studyglobal/fxcore/currency"
	"github.com/studyglobal/fxcore/rates/types"
)

var (
	errInvalidPair     = errors.New("invalid pair")
	errInvalidInterval = errors.New("invalid interval")
)

// RateResolver resolves a rate for an ordered currency pair,
// writing live results through to the shared cache
type RateResolver interface {
	ResolveRate(ctx context.Context, from, to currency.Code) types.Entry
}

// Refresher is the scheduler for registered warm pairs
type Refresher struct {
	resolver RateResolver
	logger   *slog.Logger

	registeredPairs sync.Map

	q             iq.Queue[scheduledRefresh]
	queryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Refresher instance
func New(resolver RateResolver, opts ...Option) *Refresher {
	r := &Refresher{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		resolver:      resolver,
		q:             iq.NewQueue[scheduledRefresh](),
		queryInterval: time.Second, // every second
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register registers a currency pair to be kept warm at the given
// interval. The pair is immediately queued up for a first refresh
func (r *Refresher) Register(pair types.Pair, interval time.Duration) error {
	if pair.From == "" || pair.To == "" || pair.From == pair.To {
		return errInvalidPair
	}

	if interval <= 0 {
		return errInvalidInterval
	}

	// Register the pair
	id := xid.New()
	r.registeredPairs.Store(id, warmPair{
		pair:     pair,
		interval: interval,
	})

	r.logger.Info(
		"registered warm pair",
		"pair", pair.Key(),
		"interval", interval.String(),
	)

	// Schedule the first refresh
	r.scheduleRefresh(
		time.Now().UTC(),
		id,
		pair,
	)

	return nil
}

// Start starts the warm pair refresh loop [BLOCKING]
func (r *Refresher) Start(ctx context.Context) error {
	collectorCh := make(chan *refreshResponse, 100)

	ticker := time.NewTicker(r.queryInterval)
	defer ticker.Stop()

	// handleRefresh spawns workers for all due refreshes
	handleRefresh := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				nextSR := r.nextRefresh()
				if nextSR == nil {
					return // nothing due anymore
				}

				r.logger.Debug(
					"scheduling warm refresh",
					"pair", nextSR.pair.Key(),
				)

				go handleJob(ctx, r.resolver, nextSR, collectorCh)
			}
		}
	}

	// Initialize the first set of due refreshes (on boot)
	handleRefresh()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher shut down")
			close(collectorCh)

			return nil
		case <-ticker.C:
			handleRefresh()
		case response := <-collectorCh:
			now := time.Now().UTC()

			wpRaw, ok := r.registeredPairs.Load(response.pairID)
			if !ok {
				r.logger.Error(
					"unable to load registered pair",
					"id", response.pairID.String(),
				)

				continue
			}

			wp, _ := wpRaw.(warmPair)

			// A fallback-sourced answer means the live path and the
			// cache both came up empty for this cycle
			if response.entry.Source == types.SourceFallback {
				r.logger.Warn(
					"warm refresh degraded to static rate",
					"pair", wp.pair.Key(),
				)
			} else {
				r.logger.Info(
					"warm refresh completed",
					"pair", wp.pair.Key(),
					"rate", response.entry.Rate,
					"source", response.entry.Source.String(),
				)
			}

			// Schedule the next refresh for this pair
			r.scheduleRefresh(
				now.Add(wp.interval),
				response.pairID,
				wp.pair,
			)
		}
	}
}

// scheduleRefresh schedules a new pair refresh
func (r *Refresher) scheduleRefresh(
	at time.Time,
	pairID xid.ID,
	pair types.Pair,
) {
	r.qMux.Lock()
	defer r.qMux.Unlock()

	futureSR := scheduledRefresh{
		at:     at,
		pairID: pairID,
		pair:   pair,
	}

	r.q.Push(futureSR)
}

// nextRefresh fetches the next due refresh job, as of the moment of calling
func (r *Refresher) nextRefresh() *scheduledRefresh {
	r.qMux.Lock()
	defer r.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be scheduled
	if r.q.Len() == 0 {
		return nil // nothing to schedule, all jobs are running
	}

	// Check if the top element is due
	if r.q.Index(0).at.After(now) {
		return nil // nothing to schedule, latest job is in the future
	}

	// Grab the next job
	nextSR := r.q.PopFront()

	return nextSR
}
