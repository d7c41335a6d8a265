package reliability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow"
)

func TestFaultInjectorNeverFailsByDefault(t *testing.T) {
	f := NewFaultInjector()
	require.NoError(t, f.Before(context.Background()))
}

func TestFaultInjectorAlwaysFailsAtFullRate(t *testing.T) {
	f := NewFaultInjector().WithFailureRate(1.0)
	err := f.Before(context.Background())
	require.Error(t, err)
	assert.True(t, agentflow.AsKind(err, agentflow.KindAsyncExecutionError))
}

func TestFaultInjectorNeverFailsAtZeroRateEvenWithHighSource(t *testing.T) {
	f := NewFaultInjector().WithFailureRate(0).WithSource(FixedSource(0.99))
	require.NoError(t, f.Before(context.Background()))
}

func TestFaultInjectorFailureRateComparesAgainstSource(t *testing.T) {
	f := NewFaultInjector().WithFailureRate(0.5).WithSource(FixedSource(0.4))
	require.Error(t, f.Before(context.Background()))

	f2 := NewFaultInjector().WithFailureRate(0.5).WithSource(FixedSource(0.6))
	require.NoError(t, f2.Before(context.Background()))
}

func TestFaultInjectorSleepsConfiguredLatency(t *testing.T) {
	f := NewFaultInjector().WithLatencyInjection(10 * time.Millisecond)
	start := time.Now()
	require.NoError(t, f.Before(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestFaultInjectorLatencyRespectsCancellation(t *testing.T) {
	f := NewFaultInjector().WithLatencyInjection(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.Before(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
