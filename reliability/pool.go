package reliability

import (
	"context"

	"golang.org/x/sync/semaphore"
	"go.uber.org/zap"

	"github.com/agentflow/agentflow"
)

// ResourcePool is a fixed-capacity bulkhead: Acquire hands out a permit or fails immediately with
// agentflow.ResourcePoolExhausted if none is free. Grounded on
// original_source/agentflow-core/src/robustness.rs's ResourcePool/ResourceGuard (RAII release on
// drop), and on jonwraymond-toolops/resilience/bulkhead.go's Acquire/Release/Execute shape,
// re-pointed at golang.org/x/sync/semaphore.Weighted instead of a raw buffered channel.
type ResourcePool struct {
	id     string
	sem    *semaphore.Weighted
	logger *zap.Logger
}

// NewResourcePool creates a pool named id with capacity permits.
func NewResourcePool(id string, capacity int64) *ResourcePool {
	return &ResourcePool{id: id, sem: semaphore.NewWeighted(capacity)}
}

// WithLogger attaches a logger used to report exhausted acquisitions. A nil logger is a no-op.
func (p *ResourcePool) WithLogger(logger *zap.Logger) *ResourcePool {
	p.logger = logger
	return p
}

// Guard releases its permit exactly once; the returned guard must be released on every exit path
// (Go's defer, including the panicking ones, stands in for Rust's Drop-based RAII release).
type Guard struct {
	pool *ResourcePool
}

// Release returns the permit to the pool. Safe to call multiple times.
func (g *Guard) Release() {
	if g == nil || g.pool == nil {
		return
	}
	g.pool.sem.Release(1)
	g.pool = nil
}

// Acquire takes a permit, failing immediately (non-blocking) with
// agentflow.ResourcePoolExhausted(id) if none is available.
func (p *ResourcePool) Acquire(ctx context.Context) (*Guard, error) {
	if !p.sem.TryAcquire(1) {
		logOrNop(p.logger).Debug("resource pool exhausted", zap.String("pool_id", p.id))
		return nil, agentflow.ResourcePoolExhausted(p.id)
	}
	return &Guard{pool: p}, nil
}

// Execute acquires a permit, runs op, and releases the permit on every exit path.
func (p *ResourcePool) Execute(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	guard, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer guard.Release()
	return op(ctx)
}
