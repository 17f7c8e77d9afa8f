// Package ratelimit implements the per-source request pacing used by the
// scrapers: a sliding one-minute window combined with a fixed inter-request
// delay and a concurrency gate. One limiter serves exactly one source.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	window                  = 60 * time.Second
	concurrencyPollInterval = 100 * time.Millisecond
	windowRetryInterval     = time.Second
)

// Config paces one source.
type Config struct {
	RequestsPerMinute     int
	DelayBetweenRequests  time.Duration
	MaxConcurrentRequests int
}

// Limiter suspends callers until it is safe to issue one more request.
type Limiter struct {
	cfg Config

	mu          sync.Mutex
	timestamps  []time.Time
	lastRequest time.Time
	active      int
}

// New returns a limiter for the given config. Non-positive limits are lifted
// to sane minimums.
func New(cfg Config) *Limiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 1
	}
	if cfg.MaxConcurrentRequests <= 0 {
		cfg.MaxConcurrentRequests = 1
	}
	return &Limiter{cfg: cfg}
}

// Acquire blocks until one request may be issued, then records it. It only
// returns early when ctx is cancelled; the limiter itself never fails.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()

		if l.active >= l.cfg.MaxConcurrentRequests {
			l.mu.Unlock()
			if err := sleep(ctx, concurrencyPollInterval); err != nil {
				return err
			}
			continue
		}

		l.prune(now)
		if len(l.timestamps) >= l.cfg.RequestsPerMinute {
			l.mu.Unlock()
			if err := sleep(ctx, windowRetryInterval); err != nil {
				return err
			}
			continue
		}

		if !l.lastRequest.IsZero() {
			if wait := l.cfg.DelayBetweenRequests - now.Sub(l.lastRequest); wait > 0 {
				l.mu.Unlock()
				if err := sleep(ctx, wait); err != nil {
					return err
				}
				continue
			}
		}

		l.timestamps = append(l.timestamps, now)
		l.lastRequest = now
		l.active++
		l.mu.Unlock()

		// The slot counts as active for the duration of the configured delay.
		time.AfterFunc(l.cfg.DelayBetweenRequests, l.release)
		return nil
	}
}

func (l *Limiter) release() {
	l.mu.Lock()
	if l.active > 0 {
		l.active--
	}
	l.mu.Unlock()
}

// prune drops recorded timestamps older than the window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-window)
	kept := l.timestamps[:0]
	for _, ts := range l.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.timestamps = kept
}

// Active returns the number of requests currently counted against the
// concurrency gate.
func (l *Limiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// InWindow returns how many requests are recorded inside the trailing window.
func (l *Limiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(time.Now())
	return len(l.timestamps)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
