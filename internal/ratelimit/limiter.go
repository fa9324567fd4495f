// Package ratelimit paces outbound requests per target host so that
// polling many products on the same store never turns into a burst the
// site could flag. Hosts are limited independently of each other.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config controls per-host pacing.
type Config struct {
	// RequestsPerWindow requests are allowed to one host per Window.
	RequestsPerWindow int
	Window            time.Duration
	// Jitter adds a random delay in [0, Jitter) after each acquired
	// slot, desynchronizing workers that target the same host.
	Jitter time.Duration
}

// HostLimiter is a token-bucket limiter keyed by host. Acquire blocks
// until a slot is free; it never drops or rejects a request.
type HostLimiter struct {
	cfg Config

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	// Injected for deterministic tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(max time.Duration) time.Duration
}

func New(cfg Config) *HostLimiter {
	return &HostLimiter{
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
		sleep:    sleepCtx,
		jitter: func(max time.Duration) time.Duration {
			return time.Duration(rand.Int63n(int64(max)))
		},
	}
}

// Acquire blocks the caller until a request slot for host is available,
// then applies jitter. Returns early only when ctx is cancelled.
func (l *HostLimiter) Acquire(ctx context.Context, host string) error {
	if err := l.limiterFor(host).Wait(ctx); err != nil {
		return err
	}
	if l.cfg.Jitter > 0 {
		return l.sleep(ctx, l.jitter(l.cfg.Jitter))
	}
	return nil
}

// limiterFor returns the host's limiter, creating it on first use.
// Burst is kept at 1 so requests are spaced evenly across the window:
// within any Window at most RequestsPerWindow requests can start.
func (l *HostLimiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[host]
	if !ok {
		every := l.cfg.Window / time.Duration(l.cfg.RequestsPerWindow)
		lim = rate.NewLimiter(rate.Every(every), 1)
		l.limiters[host] = lim
	}
	return lim
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
