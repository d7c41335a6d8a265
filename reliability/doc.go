// Package reliability provides composable fault-tolerance primitives for wrapping node and flow
// execution: circuit breaker, rate limiter, retry-with-backoff, resource pool (bulkhead),
// adaptive timeout, load shedder, and fault injector.
//
// None of these impose an order on each other; a node may apply rate limit → circuit breaker →
// timeout → retry or any other composition by nesting calls directly:
//
//	limiter := reliability.NewRateLimiter("llm-calls", 10, time.Second)
//	breaker := reliability.NewCircuitBreaker("llm-calls", 5, 30*time.Second)
//	policy := reliability.NewRetryPolicy(3, 50*time.Millisecond).WithJitter(0.2)
//
//	result, err := policy.Retry(ctx, func(ctx context.Context) (any, error) {
//		if err := limiter.Acquire(); err != nil {
//			return nil, err
//		}
//		return breaker.Call(ctx, callDownstream)
//	})
//
// Every primitive here returns the closed *agentflow.Error taxonomy on rejection
// (CircuitBreakerOpen, RateLimitExceeded, ResourcePoolExhausted, TimeoutExceeded), so callers can
// branch with agentflow.AsKind regardless of which primitive rejected the call.
package reliability
