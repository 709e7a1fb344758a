package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces requests per host. Keys may be URLs or bare host names.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// NewIntervalLimiter allows one request per interval per host (plus burst).
// A non-positive interval disables limiting.
func NewIntervalLimiter(interval time.Duration, burst int) *Limiter {
	l := NewLimiter(0, burst)
	if interval <= 0 {
		l.defaultRate = rate.Inf
	} else {
		l.defaultRate = rate.Every(interval)
	}
	return l
}

// Wait waits for rate limit clearance for the given URL or host
func (l *Limiter) Wait(ctx context.Context, target string) error {
	return l.getLimiter(hostKey(target)).Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(target string) bool {
	return l.getLimiter(hostKey(target)).Allow()
}

// getLimiter returns the rate limiter for a host
func (l *Limiter) getLimiter(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[host]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[host] = limiter

	return limiter
}

// SetHostInterval overrides the pacing for one host
func (l *Limiter) SetHostInterval(host string, interval time.Duration, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	l.limiters[hostKey(host)] = rate.NewLimiter(limit, burst)
}

// hostKey extracts the host from a URL, or returns the input unchanged
// when it has no scheme
func hostKey(target string) string {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return target
	}
	return parsed.Host
}

// WaitWithDelay waits for rate limit and adds an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, target string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, target); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}
