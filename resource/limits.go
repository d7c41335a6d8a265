// Package resource tracks byte/entry allocations against a shared state container, enforces
// caps, and triggers LRU-based cleanup, grounded on
// original_source/agentflow-core/src/state_monitor.rs.
package resource

// Limits configures how much a SharedState is allowed to hold before the monitor starts
// rejecting allocations or, with AutoCleanup, evicting least-recently-used entries.
type Limits struct {
	MaxStateSize     int
	MaxValueSize     int
	MaxCacheEntries  int
	CleanupThreshold float64 // fraction of MaxStateSize, in [0, 1]
	AutoCleanup      bool
}

// DefaultLimits mirrors the Rust reference implementation's defaults: generous enough not to
// interfere with ordinary flows, tight enough to exercise in tests.
func DefaultLimits() Limits {
	return Limits{
		MaxStateSize:     10 * 1024 * 1024,
		MaxValueSize:     1 * 1024 * 1024,
		MaxCacheEntries:  10_000,
		CleanupThreshold: 0.8,
		AutoCleanup:      false,
	}
}

// Builder provides a fluent construction API, matching state_monitor.rs's
// ResourceLimits::builder() idiom.
type Builder struct {
	limits Limits
}

// NewBuilder starts from DefaultLimits.
func NewBuilder() *Builder {
	l := DefaultLimits()
	return &Builder{limits: l}
}

func (b *Builder) MaxStateSize(n int) *Builder {
	b.limits.MaxStateSize = n
	return b
}

func (b *Builder) MaxValueSize(n int) *Builder {
	b.limits.MaxValueSize = n
	return b
}

func (b *Builder) MaxCacheEntries(n int) *Builder {
	b.limits.MaxCacheEntries = n
	return b
}

func (b *Builder) CleanupThreshold(f float64) *Builder {
	b.limits.CleanupThreshold = f
	return b
}

func (b *Builder) AutoCleanup(enabled bool) *Builder {
	b.limits.AutoCleanup = enabled
	return b
}

func (b *Builder) Build() Limits {
	return b.limits
}

// CleanupThresholdBytes is MaxStateSize * CleanupThreshold.
func (l Limits) CleanupThresholdBytes() int {
	return int(float64(l.MaxStateSize) * l.CleanupThreshold)
}

func (l Limits) ExceedsValueLimit(size int) bool {
	return size > l.MaxValueSize
}

func (l Limits) ExceedsStateLimit(size int) bool {
	return size > l.MaxStateSize
}

func (l Limits) ExceedsCacheLimit(count int) bool {
	return count > l.MaxCacheEntries
}

func (l Limits) ShouldCleanup(currentSize int) bool {
	return currentSize >= l.CleanupThresholdBytes()
}
