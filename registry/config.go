// Package registry provides a name-keyed node factory registry and the declarative
// configuration shapes (NodeConfig, FlowConfig) used to assemble an *agentflow.Flow without
// writing Go code, per spec.md §4.7. Grounded directly on the spec (no pack repo implements this
// exact shape); decoding follows jordigilh-kubernaut's pattern of a yaml.v3 outer document with
// nested dynamic parameters resolved via tidwall/gjson.
package registry

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// NodeConfig is the declarative description of one node in a flow.
type NodeConfig struct {
	ID         string         `yaml:"id" json:"id"`
	Kind       string         `yaml:"kind" json:"kind"`
	Parameters map[string]any `yaml:"parameters" json:"parameters"`
	Prompt     *string        `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	System     *string        `yaml:"system,omitempty" json:"system,omitempty"`
	DependsOn  []string       `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Condition  *string        `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// RouteConfig wires one (From, Action) pair to the next node.
type RouteConfig struct {
	From   string `yaml:"from" json:"from"`
	Action string `yaml:"action" json:"action"`
	To     string `yaml:"to" json:"to"`
}

// FlowConfig is the declarative description of a whole flow.
type FlowConfig struct {
	StartID   string       `yaml:"start" json:"start"`
	Routes    []RouteConfig `yaml:"routes,omitempty" json:"routes,omitempty"`
	TimeoutMS *int64       `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	Nodes     []NodeConfig `yaml:"nodes" json:"nodes"`
}

// DecodeFlowConfig parses a YAML document into a FlowConfig.
func DecodeFlowConfig(data []byte) (*FlowConfig, error) {
	var cfg FlowConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode flow config: %w", err)
	}
	return &cfg, nil
}

// Param looks up a (possibly nested, dot-separated) path within cfg.Parameters, e.g.
// "retry.max_attempts". Built on tidwall/gjson over the parameters re-encoded as JSON, so nested
// parameter trees don't need a hand-rolled walker.
func (n NodeConfig) Param(path string) gjson.Result {
	doc, err := json.Marshal(n.Parameters)
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(doc, path)
}

// ParamString looks up a string parameter, returning ok=false if absent or not a string.
func (n NodeConfig) ParamString(path string) (string, bool) {
	r := n.Param(path)
	if !r.Exists() || r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

// ParamInt looks up an integer parameter, returning ok=false if absent or not numeric.
func (n NodeConfig) ParamInt(path string) (int64, bool) {
	r := n.Param(path)
	if !r.Exists() || r.Type != gjson.Number {
		return 0, false
	}
	return r.Int(), true
}
