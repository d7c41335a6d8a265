package reliability

import "go.uber.org/zap"

// logOrNop returns logger, or a no-op logger if logger is nil. Every primitive in this package
// holds its logger as a plain optional field rather than requiring one at construction, mirroring
// Flow's WithLogger/log() pattern in the root package.
func logOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
