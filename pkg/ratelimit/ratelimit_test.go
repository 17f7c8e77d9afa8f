package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWindowNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 3, DelayBetweenRequests: 0, MaxConcurrentRequests: 10})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	acquired := 0
	for i := 0; i < 5; i++ {
		if err := l.Acquire(ctx); err != nil {
			break
		}
		acquired++
		if got := l.InWindow(); got > 3 {
			t.Fatalf("window holds %d requests, limit is 3", got)
		}
	}

	// The 4th acquire must block until the window frees up, which the short
	// context forbids.
	if acquired != 3 {
		t.Fatalf("expected exactly 3 acquisitions before blocking, got %d", acquired)
	}
}

func TestConcurrencyGate(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 100, DelayBetweenRequests: 80 * time.Millisecond, MaxConcurrentRequests: 2})
	ctx := context.Background()

	var maxSeen int64
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(ctx); err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			active := int64(l.Active())
			for {
				prev := atomic.LoadInt64(&maxSeen)
				if active <= prev || atomic.CompareAndSwapInt64(&maxSeen, prev, active) {
					break
				}
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt64(&maxSeen) > 2 {
		t.Fatalf("saw %d active requests, gate allows 2", maxSeen)
	}
}

func TestDelayBetweenRequests(t *testing.T) {
	t.Parallel()

	delay := 120 * time.Millisecond
	l := New(Config{RequestsPerMinute: 100, DelayBetweenRequests: delay, MaxConcurrentRequests: 10})
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	start := time.Now()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if elapsed := time.Since(start); elapsed < delay-20*time.Millisecond {
		t.Fatalf("second acquire returned after %v, expected ~%v", elapsed, delay)
	}
}

func TestAcquireHonorsCancellation(t *testing.T) {
	t.Parallel()

	l := New(Config{RequestsPerMinute: 1, MaxConcurrentRequests: 1})
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); err == nil {
		t.Fatal("expected context error while the window is full")
	}
}
