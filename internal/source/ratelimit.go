package source

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum spacing between outbound calls of one
// adapter: a token bucket of depth one keyed on the last call timestamp.
// There is no burst allowance and no cross-adapter coordination.
//
// The mutex is held across the sleep, so concurrent callers serialize and
// the spacing invariant survives fan-out instead of relying on every call
// site being sequential.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	last        time.Time
}

// NewRateLimiter builds a limiter allowing requestsPerSecond calls per
// second. A non-positive rate disables limiting.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		return &RateLimiter{}
	}
	return &RateLimiter{
		minInterval: time.Duration(float64(time.Second) / requestsPerSecond),
	}
}

// Wait suspends the caller until the minimum spacing since the previous call
// has elapsed, then records the new call timestamp. Returns early with the
// context's error on cancellation, without consuming the slot.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.minInterval > 0 && !r.last.IsZero() {
		remaining := r.minInterval - time.Since(r.last)
		if remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	r.last = time.Now()
	return nil
}
