package nodes

import (
	"context"
	"fmt"

	"github.com/agentflow/agentflow"
)

// BatchNode runs a fixed set of child nodes through Flow.RunConcurrentBatches against the same
// SharedState, adapting that fan-out primitive to the Node contract so a batch of work can be
// one step of a larger declared flow. Prep/Post are no-ops; all the work happens in Exec, which
// is where Flow.RunConcurrentBatches's own timeout/error semantics apply. The SharedState handle
// Prep observes is passed to Exec via the prep return value rather than a struct field, so a
// single BatchNode instance stays stateless and safe to reuse across concurrent runs.
type BatchNode struct {
	agentflow.BaseNode

	Name                 string
	Children             []agentflow.Node
	BatchSize            int
	MaxConcurrentBatches int
}

func (n *BatchNode) ID() string {
	if n.Name != "" {
		return n.Name
	}
	return n.BaseNode.ID()
}

func (n *BatchNode) Prep(ctx context.Context, shared *agentflow.SharedState) (any, error) {
	return shared, nil
}

func (n *BatchNode) Exec(ctx context.Context, prep any) (any, error) {
	if len(n.Children) == 0 {
		return nil, nil
	}

	shared, ok := prep.(*agentflow.SharedState)
	if !ok {
		return nil, fmt.Errorf("batch node %q: prep returned %T, want *agentflow.SharedState", n.ID(), prep)
	}

	flow := agentflow.NewFlow(nil).
		WithBatchSize(orDefault(n.BatchSize, 5)).
		WithMaxConcurrentBatches(orDefault(n.MaxConcurrentBatches, 3))

	return flow.RunConcurrentBatches(ctx, n.Children, shared)
}

func (n *BatchNode) Post(ctx context.Context, shared *agentflow.SharedState, prep, exec any) (agentflow.Action, error) {
	return "", nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
