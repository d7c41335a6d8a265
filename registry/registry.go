package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/agentflow/agentflow"
)

// Factory builds a node instance from a NodeConfig, and declares the JSON schema it expects on
// input and produces on output. Every built-in adapter in agentflow/nodes except BatchNode
// ships a Factory.
type Factory interface {
	Create(cfg NodeConfig) (agentflow.Node, error)
	InputSchema() map[string]any
	OutputSchema() map[string]any
}

// Registry is a name-keyed mapping kind → Factory, per spec.md §4.7.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates kind with factory, overwriting any prior registration for that kind.
func (r *Registry) Register(kind string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Validate reports whether cfg names a registered kind and carries a non-empty ID.
func (r *Registry) Validate(cfg NodeConfig) error {
	if cfg.ID == "" {
		return agentflow.ValidationError("node config missing id")
	}
	r.mu.RLock()
	_, ok := r.factories[cfg.Kind]
	r.mu.RUnlock()
	if !ok {
		return agentflow.ValidationError("unregistered node kind %q", cfg.Kind)
	}
	return nil
}

// Create resolves cfg's kind to a Factory and builds the node.
func (r *Registry) Create(cfg NodeConfig) (agentflow.Node, error) {
	if err := r.Validate(cfg); err != nil {
		return nil, err
	}
	r.mu.RLock()
	factory := r.factories[cfg.Kind]
	r.mu.RUnlock()
	return factory.Create(cfg)
}

// Build assembles a runnable *agentflow.Flow from a FlowConfig, creating every node via the
// registry and wiring routes per spec.md §4.7.
func Build(cfg *FlowConfig, registry *Registry) (*agentflow.Flow, error) {
	nodes := make(map[string]agentflow.Node, len(cfg.Nodes))
	for _, nc := range cfg.Nodes {
		node, err := registry.Create(nc)
		if err != nil {
			return nil, fmt.Errorf("create node %q: %w", nc.ID, err)
		}
		nodes[nc.ID] = node
	}

	start, ok := nodes[cfg.StartID]
	if !ok {
		return nil, agentflow.ConfigurationError("flow config: start node %q not defined", cfg.StartID)
	}

	flow := agentflow.NewFlow(start)
	if cfg.TimeoutMS != nil {
		flow = flow.WithTimeout(time.Duration(*cfg.TimeoutMS) * time.Millisecond)
	}

	for _, route := range cfg.Routes {
		from, ok := nodes[route.From]
		if !ok {
			return nil, agentflow.ConfigurationError("flow config: route references unknown node %q", route.From)
		}
		to, ok := nodes[route.To]
		if !ok {
			return nil, agentflow.ConfigurationError("flow config: route references unknown node %q", route.To)
		}
		flow.Connect(from, agentflow.Action(route.Action), to)
	}

	return flow, nil
}
