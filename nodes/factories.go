package nodes

import (
	"github.com/agentflow/agentflow"
	"github.com/agentflow/agentflow/registry"
)

// TemplateFactory builds TemplateNode instances from NodeConfig parameters "text" and
// "output_key".
type TemplateFactory struct{}

func (TemplateFactory) Create(cfg registry.NodeConfig) (agentflow.Node, error) {
	text, _ := cfg.ParamString("text")
	outputKey, _ := cfg.ParamString("output_key")
	return &TemplateNode{Name: cfg.ID, Text: text, OutputKey: outputKey}, nil
}

func (TemplateFactory) InputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{"text": map[string]any{"type": "string"}}}
}

func (TemplateFactory) OutputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{"output_key": map[string]any{"type": "string"}}}
}

// HTTPFactory builds HTTPNode instances from NodeConfig parameters "method", "url", "body", and
// "output_key". client is shared across every node this factory creates.
type HTTPFactory struct {
	Client HTTPDoer
}

func (f HTTPFactory) Create(cfg registry.NodeConfig) (agentflow.Node, error) {
	method, _ := cfg.ParamString("method")
	url, _ := cfg.ParamString("url")
	body, _ := cfg.ParamString("body")
	outputKey, _ := cfg.ParamString("output_key")
	return &HTTPNode{Name: cfg.ID, Client: f.Client, Method: method, URL: url, Body: body, OutputKey: outputKey}, nil
}

func (HTTPFactory) InputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{
		"method": map[string]any{"type": "string"},
		"url":    map[string]any{"type": "string"},
	}}
}

func (HTTPFactory) OutputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{"output_key": map[string]any{"type": "string"}}}
}

// FileFactory builds FileNode instances from NodeConfig parameters "op", "path", "content", and
// "output_key".
type FileFactory struct {
	FS FileSystem
}

func (f FileFactory) Create(cfg registry.NodeConfig) (agentflow.Node, error) {
	op, _ := cfg.ParamString("op")
	path, _ := cfg.ParamString("path")
	content, _ := cfg.ParamString("content")
	outputKey, _ := cfg.ParamString("output_key")
	return &FileNode{Name: cfg.ID, FS: f.FS, Op: FileOp(op), Path: path, Content: content, OutputKey: outputKey}, nil
}

func (FileFactory) InputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{
		"op":   map[string]any{"type": "string", "enum": []string{"read", "write", "append"}},
		"path": map[string]any{"type": "string"},
	}}
}

func (FileFactory) OutputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{"output_key": map[string]any{"type": "string"}}}
}

// LLMFactory builds LLMNode instances from NodeConfig's Prompt/System fields and parameter
// "model". client is shared across every node this factory creates.
type LLMFactory struct {
	Client LLMClient
}

func (f LLMFactory) Create(cfg registry.NodeConfig) (agentflow.Node, error) {
	model, _ := cfg.ParamString("model")
	outputKey, _ := cfg.ParamString("output_key")

	n := &LLMNode{Name: cfg.ID, Client: f.Client, Model: model, OutputKey: outputKey}
	if cfg.Prompt != nil {
		n.Prompt = *cfg.Prompt
	}
	if cfg.System != nil {
		n.System = *cfg.System
	}
	return n, nil
}

func (LLMFactory) InputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{
		"model": map[string]any{"type": "string"},
	}}
}

func (LLMFactory) OutputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{"output_key": map[string]any{"type": "string"}}}
}

// ConditionalFactory builds ConditionalNode instances from NodeConfig.Condition (the key to
// test) and parameters "if_true"/"if_false".
type ConditionalFactory struct{}

func (ConditionalFactory) Create(cfg registry.NodeConfig) (agentflow.Node, error) {
	var key string
	if cfg.Condition != nil {
		key = *cfg.Condition
	}
	ifTrue, _ := cfg.ParamString("if_true")
	ifFalse, _ := cfg.ParamString("if_false")
	return &ConditionalNode{
		Name:         cfg.ID,
		ConditionKey: key,
		IfTrue:       agentflow.Action(ifTrue),
		IfFalse:      agentflow.Action(ifFalse),
	}, nil
}

func (ConditionalFactory) InputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{
		"if_true":  map[string]any{"type": "string"},
		"if_false": map[string]any{"type": "string"},
	}}
}

func (ConditionalFactory) OutputSchema() map[string]any {
	return map[string]any{"type": "object"}
}
