package reliability

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agentflow/agentflow"
)

// RateLimiter enforces a sliding window of at most maxRequests over window. Grounded line-for-
// line on original_source/agentflow-core/src/robustness.rs's RateLimiter (scrub timestamps
// older than now-window, then check, then record). Deliberately stdlib-only: golang.org/x/time/
// rate implements token-bucket admission, which does not expose the "count of timestamps
// recorded within the last window" invariant this type is tested against.
type RateLimiter struct {
	id          string
	maxRequests int
	windowDur   time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	requests []time.Time
}

// NewRateLimiter creates a limiter named id admitting at most maxRequests per window.
func NewRateLimiter(id string, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{id: id, maxRequests: maxRequests, windowDur: window}
}

// WithLogger attaches a logger used to report rejected acquisitions. A nil logger is a no-op.
func (r *RateLimiter) WithLogger(logger *zap.Logger) *RateLimiter {
	r.logger = logger
	return r
}

// Acquire scrubs expired timestamps, and if a slot remains within the window, records now and
// succeeds; otherwise fails with agentflow.RateLimitExceeded.
func (r *RateLimiter) Acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	kept := r.requests[:0]
	for _, ts := range r.requests {
		if now.Sub(ts) < r.windowDur {
			kept = append(kept, ts)
		}
	}
	r.requests = kept

	if len(r.requests) >= r.maxRequests {
		logOrNop(r.logger).Debug("rate limiter rejected acquisition",
			zap.String("limiter_id", r.id),
			zap.Int("max_requests", r.maxRequests),
			zap.Duration("window", r.windowDur),
		)
		return agentflow.RateLimitExceeded(r.maxRequests, r.windowDur.Milliseconds())
	}

	r.requests = append(r.requests, now)
	return nil
}
