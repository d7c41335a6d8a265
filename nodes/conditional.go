package nodes

import (
	"context"

	"github.com/agentflow/agentflow"
)

// ConditionalNode selects one of two Actions based on a single SharedState key's truthiness —
// no embedded expression language, per the design notes' Non-goal on that. A key is falsy if it
// is absent or holds nil, false, "", a zero int/int64/float64, an empty []any, or an empty
// map[string]any. Every other value is truthy, including zeros of other numeric types and empty
// slices/maps of other element types.
type ConditionalNode struct {
	agentflow.BaseNode

	Name        string
	ConditionKey string
	IfTrue      agentflow.Action
	IfFalse     agentflow.Action
}

func (n *ConditionalNode) ID() string {
	if n.Name != "" {
		return n.Name
	}
	return n.BaseNode.ID()
}

func (n *ConditionalNode) Prep(ctx context.Context, shared *agentflow.SharedState) (any, error) {
	v, ok := shared.Get(n.ConditionKey)
	return evaluateTruthy(v, ok), nil
}

func (n *ConditionalNode) Exec(ctx context.Context, prep any) (any, error) {
	return prep, nil
}

func (n *ConditionalNode) Post(ctx context.Context, shared *agentflow.SharedState, prep, exec any) (agentflow.Action, error) {
	truthy, _ := exec.(bool)
	if truthy {
		return n.IfTrue, nil
	}
	return n.IfFalse, nil
}

func evaluateTruthy(v any, present bool) bool {
	if !present || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
