package cache

import (
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/studyglobal/fxcore/currency"
	"github.com/studyglobal/fxcore/rates/types"
)

// DefaultTTL is the default entry freshness window
const DefaultTTL = 5 * time.Minute

var errInvalidTTL = errors.New("invalid cache TTL")

// Cache is a time-boxed store of resolved exchange rates,
// keyed on the ordered currency pair.
// Staleness is checked at read time; the backing store's cleanup
// routine only reclaims memory for long-dead entries
type Cache struct {
	store *gocache.Cache
	now   func() time.Time
	ttl   time.Duration
}

// New creates a new rate cache with the given freshness TTL.
// A non-positive TTL is a programmer error and fails construction
func New(ttl time.Duration, opts ...Option) (*Cache, error) {
	if ttl <= 0 {
		return nil, errInvalidTTL
	}

	c := &Cache{
		// Backing entries outlive the freshness window so that
		// read-time checks (driven by the injected clock) stay
		// authoritative; cleanup is memory hygiene only
		store: gocache.New(gocache.NoExpiration, 2*ttl),
		ttl:   ttl,
		now:   time.Now,
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Get returns the cached entry for the pair, if one exists and is
// still fresh (age < TTL). A miss is a normal outcome, not an error
func (c *Cache) Get(from, to currency.Code) (types.Entry, bool) {
	key := types.Pair{From: from, To: to}.Key()

	raw, ok := c.store.Get(key)
	if !ok {
		return types.Entry{}, false
	}

	entry, ok := raw.(types.Entry)
	if !ok {
		return types.Entry{}, false
	}

	if c.now().Sub(entry.ObtainedAt) >= c.ttl {
		// Stale, treat as a miss
		return types.Entry{}, false
	}

	return entry, true
}

// Put upserts the rate for the pair with a fresh timestamp
func (c *Cache) Put(from, to currency.Code, rate float64, source types.Source) {
	key := types.Pair{From: from, To: to}.Key()

	entry := types.Entry{
		From:       from,
		To:         to,
		Rate:       rate,
		Source:     source,
		ObtainedAt: c.now(),
	}

	c.store.Set(key, entry, 2*c.ttl)
}

// TTL returns the configured freshness window
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
