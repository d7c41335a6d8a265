package agentflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxFlowIterations bounds sequential-mode traversal to defeat accidental routing cycles, per
// spec.md §4.2.1.
const maxFlowIterations = 100

// interBatchPause is inserted after each full-sized batch in RunBatch, matching
// original_source/agentflow-core/src/async_flow.rs's run_batch.
const interBatchPause = 10 * time.Millisecond

const (
	defaultBatchSize            = 5
	defaultMaxConcurrentBatches = 3
)

// Flow orchestrates connected Nodes: sequential action-routing, parallel fan-out, and batched
// fan-out over a shared SharedState. Grounded on
// original_source/agentflow-core/src/async_flow.rs (AsyncFlow: run_async/run_async_internal/
// run_parallel/run_batch/run_concurrent_batches) for orchestration semantics, and
// joemocha-flow/flow.go (getNextNode) for the routing shape, generalized to per-(node,action)
// routes so routing doesn't require globally unique action names across the whole flow.
type Flow struct {
	ID   uuid.UUID
	Name string

	start         Node
	routes        map[string]map[Action]Node
	parallelNodes []Node

	timeout              time.Duration
	batchSize            int
	maxConcurrentBatches int

	metrics *MetricsCollector
	logger  *zap.Logger
}

// NewFlow creates a sequential flow starting at start.
func NewFlow(start Node) *Flow {
	return &Flow{
		ID:                   uuid.New(),
		start:                start,
		routes:               make(map[string]map[Action]Node),
		batchSize:            defaultBatchSize,
		maxConcurrentBatches: defaultMaxConcurrentBatches,
	}
}

// NewParallelFlow creates a flow that launches every node in nodes concurrently against the same
// shared state, per spec.md §4.2.2.
func NewParallelFlow(nodes []Node) *Flow {
	f := NewFlow(nil)
	f.parallelNodes = nodes
	return f
}

// Connect registers a route: when from returns action, the flow continues at to.
func (f *Flow) Connect(from Node, action Action, to Node) *Flow {
	if f.routes[from.ID()] == nil {
		f.routes[from.ID()] = make(map[Action]Node)
	}
	f.routes[from.ID()][action] = to
	return f
}

// WithTimeout sets the per-node timeout applied to every node execution (sequential or parallel).
func (f *Flow) WithTimeout(d time.Duration) *Flow {
	f.timeout = d
	return f
}

// WithMetrics attaches a MetricsCollector; flow_start/flow_success/flow_error events and
// execution_count/duration_ms/success_count/error_count counters are emitted against it.
func (f *Flow) WithMetrics(m *MetricsCollector) *Flow {
	f.metrics = m
	return f
}

// WithName sets the flow's name, used as the metrics/event key (defaults to "unnamed_flow").
func (f *Flow) WithName(name string) *Flow {
	f.Name = name
	return f
}

// WithBatchSize sets the chunk size used by RunConcurrentBatches (default 5).
func (f *Flow) WithBatchSize(n int) *Flow {
	f.batchSize = n
	return f
}

// WithMaxConcurrentBatches caps in-flight batches in RunConcurrentBatches (default 3).
func (f *Flow) WithMaxConcurrentBatches(n int) *Flow {
	f.maxConcurrentBatches = n
	return f
}

// WithLogger attaches a *zap.Logger. A nil logger (the default) is a no-op; callers that don't
// want logging never need to construct one.
func (f *Flow) WithLogger(logger *zap.Logger) *Flow {
	f.logger = logger
	return f
}

func (f *Flow) log() *zap.Logger {
	if f.logger == nil {
		return zap.NewNop()
	}
	return f.logger
}

// Run executes the flow, bracketing it with flow_start/flow_success|flow_error observability
// events and counters, per spec.md §4.6 and async_flow.rs's run_async.
func (f *Flow) Run(ctx context.Context, shared *SharedState) (Action, error) {
	name := f.Name
	if name == "" {
		name = "unnamed_flow"
	}
	start := time.Now()

	if f.metrics != nil {
		f.metrics.RecordEvent(ExecutionEvent{NodeID: name, EventType: "flow_start", Timestamp: start})
		f.metrics.IncrementCounter(name+".execution_count", 1)
	}

	f.log().Debug("flow run starting", zap.String("flow", name), zap.String("flow_id", f.ID.String()))

	action, err := f.runInternal(ctx, shared)

	elapsed := time.Since(start)
	if f.metrics != nil {
		eventType := "flow_success"
		if err != nil {
			eventType = "flow_error"
		}
		f.metrics.RecordEvent(ExecutionEvent{NodeID: name, EventType: eventType, Timestamp: start, DurationMS: durationMS(elapsed)})
		f.metrics.IncrementCounter(name+".duration_ms", float64(elapsed.Milliseconds()))
		if err != nil {
			f.metrics.IncrementCounter(name+".error_count", 1)
		} else {
			f.metrics.IncrementCounter(name+".success_count", 1)
		}
	}

	if err != nil {
		f.log().Error("flow run failed",
			zap.String("flow", name), zap.String("flow_id", f.ID.String()),
			zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		f.log().Debug("flow run completed",
			zap.String("flow", name), zap.String("flow_id", f.ID.String()),
			zap.Duration("elapsed", elapsed), zap.String("action", string(action)))
	}

	return action, err
}

func (f *Flow) runInternal(ctx context.Context, shared *SharedState) (Action, error) {
	if len(f.parallelNodes) > 0 {
		results, err := f.runParallel(ctx, f.parallelNodes, shared)
		if err != nil {
			return "", err
		}
		return Action(fmt.Sprintf("parallel_completed_%d", len(results))), nil
	}
	return f.runSequential(ctx, shared)
}

func (f *Flow) runSequential(ctx context.Context, shared *SharedState) (Action, error) {
	if f.start == nil {
		return "", FlowExecutionFailed("no start node defined")
	}

	current := f.start
	var lastAction Action
	iterations := 0

	for current != nil {
		iterations++
		if iterations > maxFlowIterations {
			return "", FlowExecutionFailed("flow execution exceeded maximum iterations (%d)", maxFlowIterations)
		}

		action, err := f.runNode(ctx, current, shared)
		if err != nil {
			return "", err
		}
		lastAction = action

		if action == "" {
			break
		}

		next, ok := f.getNextNode(current, action)
		if !ok {
			break
		}
		current = next
	}

	return lastAction, nil
}

// runNode executes one node, applying the flow's per-node timeout if set and translating a
// context deadline into a TimeoutExceeded error.
func (f *Flow) runNode(ctx context.Context, n Node, shared *SharedState) (Action, error) {
	nodeCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		nodeCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	action, err := RunWith(nodeCtx, n, shared, f.metrics)
	if err != nil && f.timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		f.log().Warn("node execution timed out", zap.String("node_id", n.ID()), zap.Duration("timeout", f.timeout))
		return "", TimeoutExceeded(f.timeout.Milliseconds())
	}
	return action, err
}

func (f *Flow) getNextNode(current Node, action Action) (Node, bool) {
	successors, ok := f.routes[current.ID()]
	if !ok {
		return nil, false
	}
	next, ok := successors[action]
	return next, ok
}

// runParallel launches every node in nodes concurrently against shared, awaiting all of them
// even after the first failure (no dangling tasks), and returns the first observed error if any.
// Grounded on async_flow.rs's run_parallel (join_all + first-error-but-collect-all).
func (f *Flow) runParallel(ctx context.Context, nodes []Node, shared *SharedState) ([]Action, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	results := make([]Action, len(nodes))

	// A plain errgroup.Group (not errgroup.WithContext) is used deliberately: WithContext
	// cancels the derived context for every goroutine on the first error, which would abort
	// sibling nodes mid-flight. The spec requires every sibling to run to completion
	// regardless of an earlier failure.
	var g errgroup.Group
	for i, n := range nodes {
		i, n := i, n
		g.Go(func() error {
			action, err := f.runNode(ctx, n, shared)
			if err != nil {
				return err
			}
			results[i] = action
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunBatch partitions nodes into consecutive chunks of at most batchSize, runs each chunk as a
// parallel fan-out, and concatenates results preserving chunk order. Per spec.md §4.2.3.
func (f *Flow) RunBatch(ctx context.Context, nodes []Node, shared *SharedState, batchSize int) ([]Action, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	var all []Action
	for _, chunk := range chunkNodes(nodes, batchSize) {
		results, err := f.runParallel(ctx, chunk, shared)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)

		if len(chunk) == batchSize && len(all) > 0 {
			time.Sleep(interBatchPause)
		}
	}
	return all, nil
}

// RunConcurrentBatches chunks nodes into batches of f.batchSize (default 5) and runs up to
// f.maxConcurrentBatches (default 3) of them concurrently. A failure within a batch group
// short-circuits that group, but every batch already launched in the group runs to completion.
// Per spec.md §4.2.3 and async_flow.rs's run_concurrent_batches.
func (f *Flow) RunConcurrentBatches(ctx context.Context, nodes []Node, shared *SharedState) ([]Action, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	batchSize := f.batchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	maxConcurrent := f.maxConcurrentBatches
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentBatches
	}

	batches := chunkNodes(nodes, batchSize)

	var all []Action
	for _, group := range chunkBatches(batches, maxConcurrent) {
		groupResults := make([][]Action, len(group))

		var g errgroup.Group
		for i, batch := range group {
			i, batch := i, batch
			g.Go(func() error {
				results, err := f.runParallel(ctx, batch, shared)
				if err != nil {
					return err
				}
				groupResults[i] = results
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, results := range groupResults {
			all = append(all, results...)
		}
	}

	return all, nil
}

func chunkNodes(nodes []Node, size int) [][]Node {
	var chunks [][]Node
	for i := 0; i < len(nodes); i += size {
		end := i + size
		if end > len(nodes) {
			end = len(nodes)
		}
		chunks = append(chunks, nodes[i:end])
	}
	return chunks
}

func chunkBatches(batches [][]Node, size int) [][][]Node {
	var groups [][][]Node
	for i := 0; i < len(batches); i += size {
		end := i + size
		if end > len(batches) {
			end = len(batches)
		}
		groups = append(groups, batches[i:end])
	}
	return groups
}
