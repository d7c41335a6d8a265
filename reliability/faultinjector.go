package reliability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agentflow/agentflow"
)

// FaultInjector deliberately fails or delays calls for resilience testing. Grounded on
// original_source/agentflow-core/src/robustness.rs's FaultInjector. Injected failures surface as
// agentflow.AsyncExecutionError rather than a dedicated kind: spec.md §7's error taxonomy is
// closed and does not carry a FaultInjected variant, so this stays within it.
type FaultInjector struct {
	failureRate float64 // in [0, 1]
	latency     time.Duration
	source      Source
	logger      *zap.Logger
}

// NewFaultInjector creates an injector that never fails or delays by default.
func NewFaultInjector() *FaultInjector {
	return &FaultInjector{source: DefaultSource}
}

// WithFailureRate sets the probability (in [0, 1]) that Before returns an injected failure.
func (f *FaultInjector) WithFailureRate(rate float64) *FaultInjector {
	f.failureRate = rate
	return f
}

// WithLatencyInjection sets a fixed delay Before sleeps when it does not fail.
func (f *FaultInjector) WithLatencyInjection(d time.Duration) *FaultInjector {
	f.latency = d
	return f
}

// WithSource overrides the randomness source (tests use a FixedSource for determinism).
func (f *FaultInjector) WithSource(s Source) *FaultInjector {
	f.source = s
	return f
}

// WithLogger attaches a logger used to report injected failures. A nil logger is a no-op.
func (f *FaultInjector) WithLogger(logger *zap.Logger) *FaultInjector {
	f.logger = logger
	return f
}

// Before is called before the guarded operation: it fails with the configured probability, or
// else sleeps the configured latency (if ctx allows) before returning nil.
func (f *FaultInjector) Before(ctx context.Context) error {
	if f.failureRate > 0 && f.source.Float64() < f.failureRate {
		logOrNop(f.logger).Debug("fault injector injected failure", zap.Float64("failure_rate", f.failureRate))
		return agentflow.AsyncExecutionError("fault injector: injected failure")
	}
	if f.latency > 0 {
		select {
		case <-time.After(f.latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
