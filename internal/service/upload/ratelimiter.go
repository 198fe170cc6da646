package upload

import (
	"context"
	"sync"
	"time"

	uploadSvc "folio/internal/domain/services/upload"
)

// SlidingWindowLimiter admits at most limit events per key within window.
// Each key keeps the timestamps of its admitted events, oldest first.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string][]time.Time
}

// NewSlidingWindowLimiter creates a limiter. It is meant to be constructed
// once and injected where it is needed.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string][]time.Time),
	}
}

var _ uploadSvc.RateLimiter = (*SlidingWindowLimiter)(nil)

// Allow records an event for key and reports whether it fits in the window
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	events := l.buckets[key]

	expired := 0
	for expired < len(events) && now.Sub(events[expired]) > l.window {
		expired++
	}
	events = events[expired:]

	if len(events) >= l.limit {
		l.buckets[key] = events
		return false
	}

	l.buckets[key] = append(events, now)
	return true
}

// Prune drops keys whose events have all expired
func (l *SlidingWindowLimiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, events := range l.buckets {
		if len(events) == 0 || now.Sub(events[len(events)-1]) > l.window {
			delete(l.buckets, key)
		}
	}
}

// Run prunes idle keys every interval until ctx is done
func (l *SlidingWindowLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}
