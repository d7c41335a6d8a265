package reliability

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryPolicy retries an operation up to maxAttempts times with exponential backoff and optional
// jitter. The delay formula is grounded line-for-line on
// original_source/agentflow-core/src/robustness.rs's RetryPolicy::delay_for_attempt; the retry
// control flow itself is driven by cenkalti/backoff/v4's Retry via a backoff.BackOff adapter so
// this type doesn't reimplement attempt bookkeeping the library already provides.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	multiplier  float64
	jitterRatio float64
	source      Source
	logger      *zap.Logger
}

// NewRetryPolicy creates a policy with the default 2x multiplier and no jitter.
func NewRetryPolicy(maxAttempts int, baseDelay time.Duration) *RetryPolicy {
	return &RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		multiplier:  2.0,
		source:      DefaultSource,
	}
}

// WithJitter enables jitter at the given ratio of the exponential delay (e.g. 0.2 for ±20%).
func (p *RetryPolicy) WithJitter(ratio float64) *RetryPolicy {
	p.jitterRatio = ratio
	return p
}

// WithMultiplier overrides the default 2x backoff multiplier.
func (p *RetryPolicy) WithMultiplier(m float64) *RetryPolicy {
	p.multiplier = m
	return p
}

// WithSource overrides the jitter source (tests use a FixedSource for determinism).
func (p *RetryPolicy) WithSource(s Source) *RetryPolicy {
	p.source = s
	return p
}

// WithLogger attaches a logger used to report each retried attempt. A nil logger is a no-op.
func (p *RetryPolicy) WithLogger(logger *zap.Logger) *RetryPolicy {
	p.logger = logger
	return p
}

// DelayForAttempt computes the backoff delay before retrying after attempt n (0-indexed) failed:
// max(0, base*multiplier^n + jitter), where jitter is drawn from p.source and centered on zero.
func (p *RetryPolicy) DelayForAttempt(n int) time.Duration {
	exponential := float64(p.baseDelay.Milliseconds()) * math.Pow(p.multiplier, float64(n))

	var jitter float64
	if p.jitterRatio > 0 {
		factor := p.source.Float64() // [0, 1)
		jitter = exponential * p.jitterRatio * (factor - 0.5) * 2
	}

	total := exponential + jitter
	if total < 0 {
		total = 0
	}
	return time.Duration(total) * time.Millisecond
}

// retryBackOff adapts RetryPolicy to backoff.BackOff, letting backoff.Retry drive the loop while
// DelayForAttempt supplies the spec's exact jitter formula instead of backoff/v4's own
// RandomizationFactor jitter.
type retryBackOff struct {
	policy    *RetryPolicy
	triesMade int
}

func (b *retryBackOff) NextBackOff() time.Duration {
	if b.triesMade >= b.policy.maxAttempts-1 {
		return backoff.Stop
	}
	d := b.policy.DelayForAttempt(b.triesMade)
	logOrNop(b.policy.logger).Debug("retrying after failure",
		zap.Int("attempt", b.triesMade+1),
		zap.Int("max_attempts", b.policy.maxAttempts),
		zap.Duration("delay", d),
	)
	b.triesMade++
	return d
}

func (b *retryBackOff) Reset() { b.triesMade = 0 }

// Retry runs op up to p.maxAttempts times, sleeping DelayForAttempt(n) between failures, and
// surfaces the last error if every attempt fails.
func (p *RetryPolicy) Retry(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	if p.maxAttempts <= 0 {
		p.maxAttempts = 1
	}

	var result any
	wrapped := func() error {
		r, err := op(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	bo := backoff.WithContext(&retryBackOff{policy: p}, ctx)
	if err := backoff.Retry(wrapped, bo); err != nil {
		return nil, err
	}
	return result, nil
}
