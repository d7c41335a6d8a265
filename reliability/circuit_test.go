package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("svc", 3, 100*time.Millisecond)
	failing := func(ctx context.Context) (any, error) {
		return nil, errors.New("downstream unavailable")
	}

	for i := 0; i < 3; i++ {
		_, err := cb.Call(context.Background(), failing)
		require.Error(t, err)
		assert.False(t, agentflow.AsKind(err, agentflow.KindCircuitBreakerOpen), "attempt %d should be the underlying error", i+1)
	}

	assert.Equal(t, StateOpen, cb.State())

	for i := 0; i < 2; i++ {
		_, err := cb.Call(context.Background(), failing)
		require.Error(t, err)
		assert.True(t, agentflow.AsKind(err, agentflow.KindCircuitBreakerOpen), "attempt %d should be rejected without invoking the operation", i+4)
	}
}

func TestCircuitBreakerRecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker("svc", 2, 50*time.Millisecond)
	failing := func(ctx context.Context) (any, error) {
		return nil, errors.New("down")
	}

	_, _ = cb.Call(context.Background(), failing)
	_, _ = cb.Call(context.Background(), failing)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(60 * time.Millisecond)

	succeeding := func(ctx context.Context) (any, error) {
		return "ok", nil
	}
	result, err := cb.Call(context.Background(), succeeding)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, StateClosed, cb.State())
}
