package core

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token-bucket gate placed in front of the completion
// service. Tokens accrue continuously at rate/60 per second up to a burst
// capacity of one minute's worth of requests. A rate <= 0 disables the
// limiter entirely and Acquire becomes a no-op.
//
// Multiple agents driven by one process may share a single instance; all
// token state is serialized by a mutex so concurrent callers cannot
// double-spend. The lock is held across the sleep, which also serializes
// waiters in arrival order.
type RateLimiter struct {
	mu              sync.Mutex
	enabled         bool
	tokensPerSecond float64
	capacity        float64
	tokens          float64
	lastRefill      time.Time

	// Overridable in tests for deterministic timing.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter allowing requestsPerMinute completion
// calls. A value <= 0 disables rate limiting.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		now:   time.Now,
		sleep: sleepContext,
	}

	if requestsPerMinute <= 0 {
		return rl
	}

	rl.enabled = true
	rl.tokensPerSecond = float64(requestsPerMinute) / 60.0
	rl.capacity = float64(requestsPerMinute)
	rl.tokens = rl.capacity
	rl.lastRefill = rl.now()

	return rl
}

// Acquire blocks until one token is available, then spends it. The wait is
// timer-based: when fewer than one token remains it sleeps exactly the time
// needed for the bucket to refill by the deficit, then re-checks. The only
// error condition is context cancellation during the wait.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	if !rl.enabled {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	for rl.tokens < 1.0 {
		needed := 1.0 - rl.tokens
		wait := time.Duration(needed / rl.tokensPerSecond * float64(time.Second))
		if err := rl.sleep(ctx, wait); err != nil {
			return err
		}
		rl.refill()
	}

	rl.tokens -= 1.0

	return nil
}

// refill credits tokens for the wall-clock time elapsed since the last
// refill, capped at capacity. Caller must hold mu.
func (rl *RateLimiter) refill() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.tokensPerSecond)
	rl.lastRefill = now
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
