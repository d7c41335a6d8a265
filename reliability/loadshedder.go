package reliability

import "go.uber.org/zap"

// LoadShedder rejects work once caller-computed load exceeds a threshold. Grounded on
// original_source/agentflow-core/src/robustness.rs's LoadShedder.
type LoadShedder struct {
	threshold float64 // in [0, 1]
	logger    *zap.Logger
}

// NewLoadShedder creates a shedder that sheds once load exceeds threshold.
func NewLoadShedder(threshold float64) *LoadShedder {
	return &LoadShedder{threshold: threshold}
}

// WithLogger attaches a logger used to report shed decisions. A nil logger is a no-op.
func (l *LoadShedder) WithLogger(logger *zap.Logger) *LoadShedder {
	l.logger = logger
	return l
}

// ShouldShed reports whether currentLoad (e.g. active/capacity) exceeds the threshold.
func (l *LoadShedder) ShouldShed(currentLoad float64) bool {
	shed := currentLoad > l.threshold
	if shed {
		logOrNop(l.logger).Debug("load shedder rejected work", zap.Float64("current_load", currentLoad), zap.Float64("threshold", l.threshold))
	}
	return shed
}
