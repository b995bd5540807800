package scraper

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits fetches per host, independently of how many
// workers run. Each host gets its own limiter with a burst of one, so
// requests to the same host are spaced by at least the configured
// interval while distinct hosts proceed in parallel.
type HostLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

// NewHostLimiter creates a limiter enforcing minInterval between
// fetches to the same host. A zero or negative interval disables
// limiting.
func NewHostLimiter(minInterval time.Duration) *HostLimiter {
	return &HostLimiter{
		interval: minInterval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a fetch to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l == nil || l.interval <= 0 {
		return nil
	}

	l.mu.Lock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[host] = lim
	}
	l.mu.Unlock()

	return lim.Wait(ctx)
}
