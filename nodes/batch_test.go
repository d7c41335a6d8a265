package nodes

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow"
)

type writesKeyNode struct {
	agentflow.BaseNode
	name string
}

func (n *writesKeyNode) ID() string { return n.name }
func (n *writesKeyNode) Prep(ctx context.Context, shared *agentflow.SharedState) (any, error) {
	return nil, nil
}
func (n *writesKeyNode) Exec(ctx context.Context, prep any) (any, error) { return nil, nil }
func (n *writesKeyNode) Post(ctx context.Context, shared *agentflow.SharedState, prep, exec any) (agentflow.Action, error) {
	shared.Set(n.name, true)
	return "", nil
}

func TestBatchNodeRunsAllChildren(t *testing.T) {
	children := make([]agentflow.Node, 0, 7)
	for i := 0; i < 7; i++ {
		children = append(children, &writesKeyNode{name: fmt.Sprintf("child-%d", i)})
	}

	shared := agentflow.NewSharedState()
	n := &BatchNode{Children: children, BatchSize: 2, MaxConcurrentBatches: 2}

	action, err := agentflow.Run(context.Background(), n, shared)
	require.NoError(t, err)
	assert.Equal(t, agentflow.Action(""), action)

	for i := 0; i < 7; i++ {
		v, ok := shared.Get(fmt.Sprintf("child-%d", i))
		require.True(t, ok)
		assert.Equal(t, true, v)
	}
}

func TestBatchNodeEmptyChildrenIsNoop(t *testing.T) {
	shared := agentflow.NewSharedState()
	n := &BatchNode{}

	_, err := agentflow.Run(context.Background(), n, shared)
	require.NoError(t, err)
}
