package notifications

import (
	"context"
	"sync"
	"time"
)

// DismissedFunc reports whether the user has silenced enrichment notices.
type DismissedFunc func(ctx context.Context) (bool, error)

// RateLimited throttles enrichment notices from the wrapped service. Feed
// notices and test notifications pass through unchanged.
type RateLimited struct {
	next           Service
	interval       time.Duration
	oncePerSession bool
	dismissed      DismissedFunc
	now            func() time.Time

	mu       sync.Mutex
	lastSent time.Time
	sent     bool
}

// RateLimitOption configures a RateLimited service.
type RateLimitOption func(*RateLimited)

// WithDismissed consults fn before each enrichment notice.
func WithDismissed(fn DismissedFunc) RateLimitOption {
	return func(r *RateLimited) { r.dismissed = fn }
}

// WithOncePerSession allows a single enrichment notice for the process.
func WithOncePerSession(enabled bool) RateLimitOption {
	return func(r *RateLimited) { r.oncePerSession = enabled }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RateLimitOption {
	return func(r *RateLimited) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRateLimited wraps next. A non-positive interval defaults to 30 minutes.
func NewRateLimited(next Service, interval time.Duration, opts ...RateLimitOption) *RateLimited {
	if next == nil {
		next = noopService{}
	}
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	r := &RateLimited{next: next, interval: interval, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NotifyEnrichmentUnavailable forwards the notice unless it was dismissed or
// one was sent too recently.
func (r *RateLimited) NotifyEnrichmentUnavailable(ctx context.Context, reason string) error {
	if r.dismissed != nil {
		if dismissed, err := r.dismissed(ctx); err == nil && dismissed {
			return nil
		}
	}

	r.mu.Lock()
	now := r.now()
	switch {
	case r.sent && r.oncePerSession:
		r.mu.Unlock()
		return nil
	case r.sent && now.Sub(r.lastSent) < r.interval:
		r.mu.Unlock()
		return nil
	}
	r.sent = true
	r.lastSent = now
	r.mu.Unlock()

	return r.next.NotifyEnrichmentUnavailable(ctx, reason)
}

func (r *RateLimited) NotifyFeedUnavailable(ctx context.Context, username string, err error) error {
	return r.next.NotifyFeedUnavailable(ctx, username, err)
}

func (r *RateLimited) TestNotification(ctx context.Context) error {
	return r.next.TestNotification(ctx)
}

// Reset forgets the last notice so the next one is delivered.
func (r *RateLimited) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = false
	r.lastSent = time.Time{}
}
