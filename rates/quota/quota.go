package quota

import (
	"errors"
	"sync"
	"time"
)

// Defaults for the live-call budget
const (
	DefaultLimit  = 100
	DefaultWindow = 24 * time.Hour
)

var (
	errInvalidLimit  = errors.New("invalid quota limit")
	errInvalidWindow = errors.New("invalid quota window")
)

// Tracker counts live API calls made in the current quota window.
// It never fails; it only grants or denies permission to spend
// one call from the budget
type Tracker struct {
	now     func() time.Time
	resetAt time.Time
	used    int
	limit   int
	window  time.Duration

	mu sync.Mutex
}

// New creates a new quota tracker.
// Non-positive limits and windows are programmer errors
// and fail construction
func New(limit int, window time.Duration, opts ...Option) (*Tracker, error) {
	if limit <= 0 {
		return nil, errInvalidLimit
	}

	if window <= 0 {
		return nil, errInvalidWindow
	}

	t := &Tracker{
		limit:  limit,
		window: window,
		now:    time.Now,
	}

	// Apply the options
	for _, opt := range opts {
		opt(t)
	}

	t.resetAt = t.now().Add(window)

	return t, nil
}

// TryReserve atomically spends one call from the budget.
// It returns false, without mutating state, once the budget
// for the current window is exhausted
func (t *Tracker) TryReserve() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfWindowElapsed()

	if t.used >= t.limit {
		return false
	}

	t.used++

	return true
}

// Remaining returns the budget left in the current window
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfWindowElapsed()

	remaining := t.limit - t.used
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Limit returns the per-window call budget
func (t *Tracker) Limit() int {
	return t.limit
}

// ResetAt returns the time at which the current window's budget resets
func (t *Tracker) ResetAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfWindowElapsed()

	return t.resetAt
}

// resetIfWindowElapsed rolls the window forward once the current
// one has passed, clearing the usage counter.
// Must be called with the lock held
func (t *Tracker) resetIfWindowElapsed() {
	now := t.now()
	if now.Before(t.resetAt) {
		return
	}

	t.used = 0

	// Advance to the first window boundary past now
	for !t.resetAt.After(now) {
		t.resetAt = t.resetAt.Add(t.window)
	}
}
