package nodes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/agentflow/agentflow"
)

// HTTPDoer is the collaborator boundary HTTPNode delegates to, satisfied by *http.Client.
// Retry, timeout, and circuit-breaking are composed externally via agentflow/reliability
// wrapping a Node's Exec call, not baked into this adapter.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPNode issues a single HTTP request built from templated fields and publishes the response
// body under OutputKey.
type HTTPNode struct {
	agentflow.BaseNode

	Name      string
	Client    HTTPDoer
	Method    string
	URL       string // supports {{key}} substitution
	Body      string // supports {{key}} substitution; empty for GET/DELETE
	Headers   map[string]string
	OutputKey string
}

func (n *HTTPNode) ID() string {
	if n.Name != "" {
		return n.Name
	}
	return n.BaseNode.ID()
}

type httpPrep struct {
	method, url, body string
	headers           map[string]string
}

func (n *HTTPNode) Prep(ctx context.Context, shared *agentflow.SharedState) (any, error) {
	method := n.Method
	if method == "" {
		method = http.MethodGet
	}
	return httpPrep{
		method:  method,
		url:     shared.ResolveTemplate(n.URL),
		body:    shared.ResolveTemplate(n.Body),
		headers: n.Headers,
	}, nil
}

func (n *HTTPNode) Exec(ctx context.Context, prep any) (any, error) {
	p, ok := prep.(httpPrep)
	if !ok {
		return nil, agentflow.NodeExecutionFailed("http node %q: unexpected prep type", n.ID())
	}
	if n.Client == nil {
		return nil, agentflow.ConfigurationError("http node %q: no HTTPDoer configured", n.ID())
	}

	var bodyReader io.Reader
	if p.body != "" {
		bodyReader = bytes.NewBufferString(p.body)
	}

	req, err := http.NewRequestWithContext(ctx, p.method, p.url, bodyReader)
	if err != nil {
		return nil, agentflow.ValidationError("http node %q: %v", n.ID(), err)
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, agentflow.IoError(fmt.Errorf("http node %q: %w", n.ID(), err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, agentflow.IoError(fmt.Errorf("http node %q: reading response body: %w", n.ID(), err))
	}

	if resp.StatusCode >= 400 {
		return nil, agentflow.IoError(fmt.Errorf("http node %q: status %d: %s", n.ID(), resp.StatusCode, string(data)))
	}

	return string(data), nil
}

func (n *HTTPNode) Post(ctx context.Context, shared *agentflow.SharedState, prep, exec any) (agentflow.Action, error) {
	body, ok := exec.(string)
	if !ok {
		return "", agentflow.NodeExecutionFailed("http node %q: unexpected exec result type", n.ID())
	}
	key := n.OutputKey
	if key == "" {
		key = "http_response"
	}
	shared.Set(key, body)
	return "", nil
}
