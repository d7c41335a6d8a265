package reliability

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/agentflow/agentflow"
)

// State mirrors the spec's three-state circuit breaker model, independent of gobreaker's own
// exported state type, so callers of this package never need to import gobreaker directly.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreaker wraps sony/gobreaker, translating its open/too-many-requests rejections into
// agentflow.Error{Kind: CircuitBreakerOpen}. State-machine shape (lazy HalfOpen transition on the
// next call after the recovery timeout, immediate re-open on a HalfOpen failure) is grounded on
// original_source/agentflow-core/src/robustness.rs's CircuitBreaker and matches gobreaker's
// default behavior with MaxRequests=1 in the half-open probe.
type CircuitBreaker struct {
	id     string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewCircuitBreaker creates a breaker named id that opens after failureThreshold consecutive
// failures and probes recovery after recoveryTimeout.
func NewCircuitBreaker(id string, failureThreshold uint32, recoveryTimeout time.Duration) *CircuitBreaker {
	c := &CircuitBreaker{id: id}
	settings := gobreaker.Settings{
		Name:        id,
		MaxRequests: 1,
		Timeout:     recoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logOrNop(c.logger).Warn("circuit breaker state change",
				zap.String("breaker_id", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	c.cb = gobreaker.NewCircuitBreaker(settings)
	return c
}

// WithLogger attaches a logger used to report state transitions (closed->open, open->half-open,
// half-open->closed/open). A nil logger is a no-op, so this is safe to leave unset.
func (c *CircuitBreaker) WithLogger(logger *zap.Logger) *CircuitBreaker {
	c.logger = logger
	return c
}

// Call executes op under the breaker. A rejected call (Open, or too many half-open probes in
// flight) surfaces as agentflow.CircuitBreakerOpen(id); any other failure surfaces unchanged.
func (c *CircuitBreaker) Call(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return op(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logOrNop(c.logger).Debug("circuit breaker rejected call", zap.String("breaker_id", c.id), zap.Error(err))
			return nil, agentflow.CircuitBreakerOpen(c.id)
		}
		return nil, err
	}
	return result, nil
}

// State reports the breaker's current state.
func (c *CircuitBreaker) State() State {
	switch c.cb.State() {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}
