// Package nodes provides built-in Node adapters — LLM, HTTP, filesystem, template substitution,
// and batch/conditional composition. Every adapter except BatchNode has a registry.Factory
// (factories.go), so it can be registered with agentflow/registry like any user-defined node,
// per spec.md §6.
package nodes

import "context"

// Request is a single LLM chat completion request: a system prompt, the conversation history,
// and the model identifier to call.
type Request struct {
	Model    string
	System   string
	Messages []Message
}

// Message is one turn of a chat conversation.
type Message struct {
	Role    string // "system", "user", or "assistant"
	Content string
}

// Response is the model's reply to a Request.
type Response struct {
	Content string
}

// LLMClient is the collaborator boundary nodes.LLMNode delegates to. The default implementation
// (llm_openai.go) shims github.com/openai/openai-go; tests substitute a fake satisfying this
// interface instead of hitting a real provider.
type LLMClient interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// StreamingLLMClient is an optional capability: an LLMClient may also support token-by-token
// delivery via onToken, called once per chunk as it arrives.
type StreamingLLMClient interface {
	LLMClient
	ExecuteStreaming(ctx context.Context, req Request, onToken func(chunk string)) (Response, error)
}
