package reliability

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agentflow/agentflow"
)

// maxTimeoutHistory bounds the sliding window of observed durations AdaptiveTimeout learns from.
const maxTimeoutHistory = 10

// minTimeoutSamples is the number of observations required before recomputing the timeout.
const minTimeoutSamples = 3

// AdaptiveTimeout wraps an operation with a timeout that tightens or loosens based on recent
// observed durations: once at least minTimeoutSamples have been recorded, the timeout becomes
// p95(history) * 1.5. Grounded on
// original_source/agentflow-core/src/robustness.rs's AdaptiveTimeout.
type AdaptiveTimeout struct {
	mu      sync.Mutex
	current time.Duration
	history []time.Duration
	logger  *zap.Logger
}

// NewAdaptiveTimeout creates an AdaptiveTimeout starting at initial.
func NewAdaptiveTimeout(initial time.Duration) *AdaptiveTimeout {
	return &AdaptiveTimeout{current: initial}
}

// WithLogger attaches a logger used to report recomputed timeouts and timeout expirations. A nil
// logger is a no-op.
func (a *AdaptiveTimeout) WithLogger(logger *zap.Logger) *AdaptiveTimeout {
	a.logger = logger
	return a
}

// CurrentTimeout returns the timeout duration that would be applied to the next operation.
func (a *AdaptiveTimeout) CurrentTimeout() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// RecordExecutionTime records an observed duration and recomputes current, once enough samples
// have accumulated.
func (a *AdaptiveTimeout) RecordExecutionTime(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, d)
	if len(a.history) > maxTimeoutHistory {
		a.history = a.history[1:]
	}

	if len(a.history) >= minTimeoutSamples {
		sorted := make([]time.Duration, len(a.history))
		copy(sorted, a.history)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		index := int(float64(len(sorted)) * 0.95)
		if index >= len(sorted) {
			index = len(sorted) - 1
		}
		p95 := sorted[index]

		a.current = time.Duration(float64(p95) * 1.5)
		logOrNop(a.logger).Debug("adaptive timeout recomputed",
			zap.Duration("p95", p95),
			zap.Duration("new_timeout", a.current),
			zap.Int("samples", len(sorted)),
		)
	}
}

// Run executes op under the current adaptive timeout, recording the observed duration and
// translating a timeout into agentflow.TimeoutExceeded.
func (a *AdaptiveTimeout) Run(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	timeout := a.CurrentTimeout()

	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := op(ctxTimeout)
	elapsed := time.Since(start)

	if ctxTimeout.Err() != nil && err != nil {
		logOrNop(a.logger).Warn("adaptive timeout exceeded", zap.Duration("timeout", timeout), zap.Duration("elapsed", elapsed))
		return nil, agentflow.TimeoutExceeded(timeout.Milliseconds())
	}

	a.RecordExecutionTime(elapsed)
	return result, err
}
