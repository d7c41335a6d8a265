package nodes

import (
	"context"
	"fmt"

	"github.com/agentflow/agentflow"
)

// LLMNode resolves a prompt template against SharedState, calls an LLMClient, and publishes the
// reply under OutputKey. Prompt/System support {{key}} substitution via SharedState.ResolveTemplate,
// matching nodes.TemplateNode's substitution semantics.
type LLMNode struct {
	agentflow.BaseNode

	Name      string
	Client    LLMClient
	Model     string
	System    string
	Prompt    string
	OutputKey string
	HistoryKey string // optional; when set, Prep/Post thread a running conversation through shared state
}

func (n *LLMNode) ID() string {
	if n.Name != "" {
		return n.Name
	}
	return n.BaseNode.ID()
}

type llmPrep struct {
	req Request
}

func (n *LLMNode) Prep(ctx context.Context, shared *agentflow.SharedState) (any, error) {
	system := shared.ResolveTemplate(n.System)
	prompt := shared.ResolveTemplate(n.Prompt)

	var history []Message
	if n.HistoryKey != "" {
		if v, ok := shared.Get(n.HistoryKey); ok {
			if h, ok := v.([]Message); ok {
				history = h
			}
		}
	}

	messages := append(append([]Message{}, history...), Message{Role: "user", Content: prompt})

	return llmPrep{req: Request{Model: n.Model, System: system, Messages: messages}}, nil
}

func (n *LLMNode) Exec(ctx context.Context, prep any) (any, error) {
	p, ok := prep.(llmPrep)
	if !ok {
		return nil, agentflow.NodeExecutionFailed("llm node %q: unexpected prep type", n.ID())
	}
	if n.Client == nil {
		return nil, agentflow.ConfigurationError("llm node %q: no LLMClient configured", n.ID())
	}

	resp, err := n.Client.Execute(ctx, p.req)
	if err != nil {
		return nil, fmt.Errorf("llm node %q: %w", n.ID(), err)
	}
	return resp, nil
}

func (n *LLMNode) Post(ctx context.Context, shared *agentflow.SharedState, prep, exec any) (agentflow.Action, error) {
	resp, ok := exec.(Response)
	if !ok {
		return "", agentflow.NodeExecutionFailed("llm node %q: unexpected exec result type", n.ID())
	}

	key := n.OutputKey
	if key == "" {
		key = "llm_response"
	}
	shared.Set(key, resp.Content)

	if n.HistoryKey != "" {
		p := prep.(llmPrep)
		updated := append(p.req.Messages, Message{Role: "assistant", Content: resp.Content})
		shared.Set(n.HistoryKey, updated)
	}

	return "", nil
}
