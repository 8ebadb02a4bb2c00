package refresh

import (
	"log/slog"
	"time"
)

type Option func(r *Refresher)

// WithLogger specifies the logger for the refresher
func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) {
		r.logger = l
	}
}

// WithQueryInterval specifies how often the refresher checks for due
// jobs. Defaults to 1s.
// This should only be modified if the registered pairs have sparse
// refresh cadences (once every hour / 24hrs)
func WithQueryInterval(q time.Duration) Option {
	return func(r *Refresher) {
		r.queryInterval = q
	}
}
