// Package ratelimit provides a token-bucket rate limiter per (source,
// endpoint-class) and an exponential backoff helper, matching the behavior
// of the original rate limiter this module replaces: refill computed from a
// monotonic clock on demand, acquire/try_acquire/wait_time/reset surface.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter to expose the acquire/try_acquire/wait_time/
// reset surface this codebase's sync clients depend on. x/time/rate already
// implements the token-bucket arithmetic (refill on demand from a monotonic
// clock); this type adds the blocking-with-timeout and introspection calls
// that API lacks.
type Limiter struct {
	mu      sync.Mutex
	rl      *rate.Limiter
	rps     float64
	burst   int
}

// New creates a Limiter with the given fill rate (requests per second) and
// burst capacity.
func New(requestsPerSecond float64, burstSize int) *Limiter {
	return &Limiter{
		rl:    rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		rps:   requestsPerSecond,
		burst: burstSize,
	}
}

// TryAcquire takes one token if available without blocking.
func (l *Limiter) TryAcquire() bool {
	return l.rl.Allow()
}

// Acquire blocks until a token is available or timeout elapses (timeout<=0
// means wait indefinitely, bounded only by ctx). Returns false on timeout or
// context cancellation.
func (l *Limiter) Acquire(ctx context.Context, timeout time.Duration) bool {
	if l.rl.Allow() {
		return true
	}

	deadline := time.Now().Add(l.WaitTime())
	if timeout > 0 {
		now := time.Now()
		if now.Add(timeout).Before(deadline) {
			// Won't make it within timeout.
			return false
		}
	}

	for {
		wait := l.WaitTime()
		if wait <= 0 {
			if l.rl.Allow() {
				return true
			}
			wait = time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
			if l.rl.Allow() {
				return true
			}
			if timeout > 0 && time.Now().After(deadline) {
				return false
			}
		}
	}
}

// WaitTime returns the projected time until the next token becomes
// available. A reservation is taken and immediately canceled so this call
// has no side effect on the bucket's state.
func (l *Limiter) WaitTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.rl.Reserve()
	defer r.Cancel()
	if !r.OK() {
		return time.Second
	}
	return r.Delay()
}

// Reset replaces the bucket with a fresh, fully-refilled one at the same
// configured rate and burst size.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rl = rate.NewLimiter(rate.Limit(l.rps), l.burst)
}

// Class distinguishes API (JSON) traffic from HTML scrape traffic, so
// scraping can be paced more conservatively per source.
type Class string

const (
	ClassAPI    Class = "api"
	ClassScrape Class = "scrape"
)

// Registry holds one Limiter per (source, class).
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
}

func NewRegistry() *Registry {
	return &Registry{limiters: make(map[string]*Limiter)}
}

// Get returns the limiter for (source, class), creating it with the given
// defaults on first use.
func (r *Registry) Get(source string, class Class, defaultRPS float64, defaultBurst int) *Limiter {
	key := source + ":" + string(class)
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[key]; ok {
		return l
	}
	l := New(defaultRPS, defaultBurst)
	r.limiters[key] = l
	return l
}

// Backoff returns min(base*2^attempt, max), optionally jittered by
// (1 + U[0, 0.5)). attempt is 0-based (first retry).
func Backoff(attempt int, base, max time.Duration, jitter bool) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d > max {
			d = max
			break
		}
	}
	if d > max {
		d = max
	}
	if jitter {
		factor := 1 + rand.Float64()*0.5
		d = time.Duration(float64(d) * factor)
	}
	return d
}
