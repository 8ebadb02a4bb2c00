package client

import (
	"log/slog"
	"time"
)

type Option func(r *Resolver)

// WithLogger specifies the logger for the resolver
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithAttempts specifies the number of live fetch attempts.
// Defaults to 3
func WithAttempts(attempts int) Option {
	return func(r *Resolver) {
		if attempts > 0 {
			r.attempts = attempts
		}
	}
}

// WithBaseDelay specifies the base backoff delay between attempts,
// doubled after each failure. Defaults to 1s
func WithBaseDelay(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.baseDelay = d
		}
	}
}

// WithAttemptTimeout specifies the per-attempt fetch timeout.
// Defaults to 5s
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.attemptTimeout = d
		}
	}
}

// WithProbeTimeout specifies the health probe timeout.
// Defaults to 1.5s
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.probeTimeout = d
		}
	}
}

// WithClock specifies the time source used for entry timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}
