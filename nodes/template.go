package nodes

import (
	"context"

	"github.com/agentflow/agentflow"
)

// TemplateNode resolves Text's {{key}} placeholders against SharedState at Prep time and
// publishes the rendered string under OutputKey. The resolution itself is
// SharedState.ResolveTemplate; this adapter just wires that into the Node contract so template
// rendering can be one step of a declared flow.
type TemplateNode struct {
	agentflow.BaseNode

	Name      string
	Text      string
	OutputKey string
}

func (n *TemplateNode) ID() string {
	if n.Name != "" {
		return n.Name
	}
	return n.BaseNode.ID()
}

func (n *TemplateNode) Prep(ctx context.Context, shared *agentflow.SharedState) (any, error) {
	return shared.ResolveTemplate(n.Text), nil
}

func (n *TemplateNode) Exec(ctx context.Context, prep any) (any, error) {
	return prep, nil
}

func (n *TemplateNode) Post(ctx context.Context, shared *agentflow.SharedState, prep, exec any) (agentflow.Action, error) {
	rendered, _ := exec.(string)
	key := n.OutputKey
	if key == "" {
		key = "rendered_text"
	}
	shared.Set(key, rendered)
	return "", nil
}
