package agentflow

import (
	"errors"
	"fmt"
)

// Kind is the closed taxonomy of failure kinds a component in this module can return.
type Kind int

const (
	// KindFlowExecutionFailed marks an unrecoverable orchestration error: missing start
	// node, iteration cap exceeded, or a routed action naming a node the flow does not own.
	KindFlowExecutionFailed Kind = iota
	// KindNodeExecutionFailed marks a failure raised by one of a node's three phases.
	KindNodeExecutionFailed
	// KindAsyncExecutionError marks a generic async operation failure.
	KindAsyncExecutionError
	// KindTimeoutExceeded marks a bounded operation that exceeded its deadline.
	KindTimeoutExceeded
	// KindCircuitBreakerOpen marks a short-circuit rejection.
	KindCircuitBreakerOpen
	// KindRateLimitExceeded marks a throughput rejection.
	KindRateLimitExceeded
	// KindResourcePoolExhausted marks a bulkhead with no free permit.
	KindResourcePoolExhausted
	// KindSharedStateError marks a missing key or shared-state invariant violation.
	KindSharedStateError
	// KindValidationError marks a configuration or input shape rejected at registry or prep time.
	KindValidationError
	// KindConfigurationError marks a missing external dependency (credentials, endpoints).
	KindConfigurationError
	// KindIoError marks a filesystem or network failure.
	KindIoError
)

func (k Kind) String() string {
	switch k {
	case KindFlowExecutionFailed:
		return "FlowExecutionFailed"
	case KindNodeExecutionFailed:
		return "NodeExecutionFailed"
	case KindAsyncExecutionError:
		return "AsyncExecutionError"
	case KindTimeoutExceeded:
		return "TimeoutExceeded"
	case KindCircuitBreakerOpen:
		return "CircuitBreakerOpen"
	case KindRateLimitExceeded:
		return "RateLimitExceeded"
	case KindResourcePoolExhausted:
		return "ResourcePoolExhausted"
	case KindSharedStateError:
		return "SharedStateError"
	case KindValidationError:
		return "ValidationError"
	case KindConfigurationError:
		return "ConfigurationError"
	case KindIoError:
		return "IoError"
	default:
		return "UnknownError"
	}
}

// Error is the single error type every component in this module returns. Its Kind pins it to
// one of the closed taxonomy values; the structured fields below are populated only for the
// kinds that carry them (see the constructors).
type Error struct {
	Kind Kind
	Message string

	DurationMS   int64
	NodeID       string
	Limit        int
	WindowMS     int64
	ResourceType string

	cause error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is(err, &Error{Kind: X}) match any *Error sharing Kind X, regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// Wrap attaches a cause to an existing Error, returning a new Error so callers never mutate a
// shared instance.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FlowExecutionFailed builds a FlowExecutionFailed error.
func FlowExecutionFailed(format string, args ...any) *Error {
	return newErr(KindFlowExecutionFailed, format, args...)
}

// NodeExecutionFailed builds a NodeExecutionFailed error.
func NodeExecutionFailed(format string, args ...any) *Error {
	return newErr(KindNodeExecutionFailed, format, args...)
}

// AsyncExecutionError builds an AsyncExecutionError error.
func AsyncExecutionError(format string, args ...any) *Error {
	return newErr(KindAsyncExecutionError, format, args...)
}

// TimeoutExceeded builds a TimeoutExceeded error carrying the exceeded duration in milliseconds.
func TimeoutExceeded(durationMS int64) *Error {
	return &Error{Kind: KindTimeoutExceeded, Message: fmt.Sprintf("operation exceeded %dms", durationMS), DurationMS: durationMS}
}

// CircuitBreakerOpen builds a CircuitBreakerOpen error naming the rejecting node/primitive.
func CircuitBreakerOpen(nodeID string) *Error {
	return &Error{Kind: KindCircuitBreakerOpen, Message: fmt.Sprintf("circuit breaker open for %q", nodeID), NodeID: nodeID}
}

// RateLimitExceeded builds a RateLimitExceeded error carrying the limit and window.
func RateLimitExceeded(limit int, windowMS int64) *Error {
	return &Error{
		Kind:     KindRateLimitExceeded,
		Message:  fmt.Sprintf("rate limit %d exceeded over %dms window", limit, windowMS),
		Limit:    limit,
		WindowMS: windowMS,
	}
}

// RateLimitExceededUnknown builds a RateLimitExceeded error for callers that only know a rate
// limit was hit, not its limit/window — e.g. translating a 429 from a third-party API that
// doesn't expose those figures on the error value it returns. Limit and WindowMS are left at -1
// rather than 0, so callers can tell "unknown" apart from "zero" when inspecting the fields.
func RateLimitExceededUnknown() *Error {
	return &Error{Kind: KindRateLimitExceeded, Message: "rate limit exceeded", Limit: -1, WindowMS: -1}
}

// ResourcePoolExhausted builds a ResourcePoolExhausted error naming the pool's resource type.
func ResourcePoolExhausted(resourceType string) *Error {
	return &Error{Kind: KindResourcePoolExhausted, Message: fmt.Sprintf("resource pool %q exhausted", resourceType), ResourceType: resourceType}
}

// SharedStateError builds a SharedStateError error.
func SharedStateError(format string, args ...any) *Error {
	return newErr(KindSharedStateError, format, args...)
}

// ValidationError builds a ValidationError error.
func ValidationError(format string, args ...any) *Error {
	return newErr(KindValidationError, format, args...)
}

// ConfigurationError builds a ConfigurationError error.
func ConfigurationError(format string, args ...any) *Error {
	return newErr(KindConfigurationError, format, args...)
}

// IoError builds an IoError wrapping the underlying filesystem/network cause.
func IoError(cause error) *Error {
	return (&Error{Kind: KindIoError, Message: "io error"}).Wrap(cause)
}

// AsKind reports whether err is (or wraps) an *Error of the given Kind.
func AsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
