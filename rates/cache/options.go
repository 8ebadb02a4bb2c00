package cache

import "time"

type Option func(c *Cache)

// WithClock specifies the time source used for freshness checks
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}
