package agentflow

import (
	"context"
	"fmt"
	"time"
)

// Action selects the next node a Flow should route to. The empty Action means "no action /
// terminate the flow", per spec.md §4.1.
type Action string

// Node is the unit of work a Flow orchestrates: three async phases executed in strict order.
// Grounded on joemocha-flow/flow/node.go's Node interface (Prep/Exec/Post/GetSuccessors),
// generalized to be async (context.Context) and error-returning instead of panic-based, per
// spec.md §4.1.
type Node interface {
	// ID returns a stable identifier for this node, used for flow routing and observability.
	ID() string

	// Prep reads inputs from shared state and produces a value consumed by Exec. Must not
	// have side effects beyond observability.
	Prep(ctx context.Context, shared *SharedState) (any, error)

	// Exec performs the node's real work. Must not read or write shared state directly; this
	// is the retry/timeout boundary.
	Exec(ctx context.Context, prep any) (any, error)

	// Post publishes results to shared state and selects the next Action, or "" to terminate.
	Post(ctx context.Context, shared *SharedState, prep any, exec any) (Action, error)
}

// BaseNode supplies a default ID derived from the embedding node's pointer identity, so nodes
// that don't need a meaningful name can embed BaseNode and skip implementing ID().
type BaseNode struct{}

// ID returns a stable debug identifier ("node-0x...") unique per node instance.
func (b *BaseNode) ID() string {
	return fmt.Sprintf("node-%p", b)
}

// Run executes a node's prep/exec/post lifecycle without observability, propagating the first
// failure encountered.
func Run(ctx context.Context, n Node, shared *SharedState) (Action, error) {
	return RunWith(ctx, n, shared, nil)
}

// RunWith executes a node's lifecycle, emitting start/end ExecutionEvents per phase and
// incrementing node.<id>.executions, node.<id>.duration_ms, and node.<id>.success or
// node.<id>.errors on metrics, when metrics is non-nil. Grounded on spec.md §4.1's run_with.
func RunWith(ctx context.Context, n Node, shared *SharedState, metrics *MetricsCollector) (Action, error) {
	id := n.ID()
	start := time.Now()

	prep, err := runPhase(ctx, metrics, id, "prep", func() (any, error) {
		return n.Prep(ctx, shared)
	})
	if err != nil {
		recordNodeOutcome(metrics, id, start, false)
		return "", err
	}

	exec, err := runPhase(ctx, metrics, id, "exec", func() (any, error) {
		return n.Exec(ctx, prep)
	})
	if err != nil {
		recordNodeOutcome(metrics, id, start, false)
		return "", err
	}

	var action Action
	_, err = runPhase(ctx, metrics, id, "post", func() (any, error) {
		a, perr := n.Post(ctx, shared, prep, exec)
		action = a
		return a, perr
	})
	if err != nil {
		recordNodeOutcome(metrics, id, start, false)
		return "", err
	}

	recordNodeOutcome(metrics, id, start, true)
	return action, nil
}

func runPhase(ctx context.Context, metrics *MetricsCollector, nodeID, phase string, fn func() (any, error)) (any, error) {
	if metrics == nil {
		return fn()
	}

	phaseStart := time.Now()
	metrics.RecordEvent(ExecutionEvent{NodeID: nodeID, EventType: phase + "_start", Timestamp: phaseStart})

	result, err := fn()

	elapsed := time.Since(phaseStart)
	eventType := phase + "_success"
	if err != nil {
		eventType = phase + "_error"
	}
	metrics.RecordEvent(ExecutionEvent{
		NodeID:     nodeID,
		EventType:  eventType,
		Timestamp:  phaseStart,
		DurationMS: durationMS(elapsed),
	})

	return result, err
}

func recordNodeOutcome(metrics *MetricsCollector, nodeID string, start time.Time, success bool) {
	if metrics == nil {
		return
	}
	metrics.IncrementCounter(fmt.Sprintf("node.%s.executions", nodeID), 1)
	metrics.IncrementCounter(fmt.Sprintf("node.%s.duration_ms", nodeID), float64(time.Since(start).Milliseconds()))
	if success {
		metrics.IncrementCounter(fmt.Sprintf("node.%s.success", nodeID), 1)
	} else {
		metrics.IncrementCounter(fmt.Sprintf("node.%s.errors", nodeID), 1)
	}
}
