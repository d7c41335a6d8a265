package reliability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow"
)

func TestRateLimiterAdmitsUpToCap(t *testing.T) {
	rl := NewRateLimiter("test", 3, time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Acquire())
	}
	err := rl.Acquire()
	require.Error(t, err)
	assert.True(t, agentflow.AsKind(err, agentflow.KindRateLimitExceeded))
}

func TestRateLimiterSlidesWindow(t *testing.T) {
	rl := NewRateLimiter("test", 2, 30*time.Millisecond)
	require.NoError(t, rl.Acquire())
	require.NoError(t, rl.Acquire())
	require.Error(t, rl.Acquire())

	time.Sleep(40 * time.Millisecond)
	require.NoError(t, rl.Acquire(), "expired timestamps should be scrubbed")
}
