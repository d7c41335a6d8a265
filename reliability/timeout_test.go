package reliability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdaptiveTimeoutRecomputesAfterThreeSamples(t *testing.T) {
	at := NewAdaptiveTimeout(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, at.CurrentTimeout())

	at.RecordExecutionTime(10 * time.Millisecond)
	at.RecordExecutionTime(20 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, at.CurrentTimeout(), "fewer than 3 samples must not change the timeout")

	at.RecordExecutionTime(30 * time.Millisecond)
	assert.NotEqual(t, 500*time.Millisecond, at.CurrentTimeout())
}

func TestAdaptiveTimeoutHistoryBounded(t *testing.T) {
	at := NewAdaptiveTimeout(time.Second)
	for i := 0; i < 20; i++ {
		at.RecordExecutionTime(time.Duration(i+1) * time.Millisecond)
	}
	assert.LessOrEqual(t, len(at.history), maxTimeoutHistory)
}
