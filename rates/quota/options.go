package quota

import "time"

type Option func(t *Tracker)

// WithClock specifies the time source used for window accounting
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}
