package agentflow

import (
	"regexp"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/agentflow/agentflow/resource"
)

// templateTokenRE matches a single, non-nested {{key}} placeholder.
var templateTokenRE = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// SharedState is the flow-scoped, thread-safe key/value container nodes read from and write to.
// Values are a JSON-shaped dynamic sum type (nil, bool, number, string, []any, map[string]any).
// Every mutating operation is reported to an attached resource.Monitor; reads optionally refresh
// the monitor's LRU access time.
type SharedState struct {
	mu      sync.RWMutex
	data    map[string]any
	monitor *resource.Monitor
}

// Option configures a SharedState at construction time.
type Option func(*SharedState)

// WithMonitor attaches a resource.Monitor so every mutation is accounted for. Without one,
// resource limits are not enforced and Insert never fails on size grounds.
func WithMonitor(m *resource.Monitor) Option {
	return func(s *SharedState) { s.monitor = m }
}

// NewSharedState creates an empty SharedState, optionally wired to a resource monitor.
func NewSharedState(opts ...Option) *SharedState {
	s := &SharedState{data: make(map[string]any)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert stores v under key. If a resource monitor is attached and rejects the allocation (and
// auto-cleanup is disabled), the state is left unmodified and ok is false.
func (s *SharedState) Insert(key string, v any) (ok bool) {
	if s.monitor != nil {
		if !s.monitor.RecordAllocation(key, valueSize(v)) {
			return false
		}
	}
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	return true
}

// Set is an alias for Insert that discards the ok result, for callers that already know the
// value fits (e.g. node Post phases writing small results).
func (s *SharedState) Set(key string, v any) {
	s.Insert(key, v)
}

// Get returns the value stored under key and whether it was present. When a monitor is
// attached, a successful Get refreshes the key's LRU access time.
func (s *SharedState) Get(key string) (any, bool) {
	s.mu.RLock()
	v, ok := s.data[key]
	s.mu.RUnlock()
	if ok && s.monitor != nil {
		s.monitor.RecordAccess(key)
	}
	return v, ok
}

// ContainsKey reports whether key is present.
func (s *SharedState) ContainsKey(key string) bool {
	s.mu.RLock()
	_, ok := s.data[key]
	s.mu.RUnlock()
	return ok
}

// Remove deletes key, reporting the deallocation to the monitor if one is attached.
func (s *SharedState) Remove(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	if s.monitor != nil {
		s.monitor.RecordDeallocation(key)
	}
}

// Append adds value to the slice stored at key, creating one if key is absent or not a slice.
func (s *SharedState) Append(key string, value any) {
	s.mu.Lock()
	existing, ok := s.data[key].([]any)
	if !ok {
		existing = nil
	}
	updated := append(existing, value)
	s.data[key] = updated
	s.mu.Unlock()
	if s.monitor != nil {
		s.monitor.RecordAllocation(key, valueSize(updated))
	}
}

// Keys returns a snapshot of the currently stored keys.
func (s *SharedState) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// ResolveTemplate performs a single, non-recursive pass substituting every {{key}} token in text
// with the canonical textual rendering of state[key], or the empty string if key is absent.
func (s *SharedState) ResolveTemplate(text string) string {
	return templateTokenRE.ReplaceAllStringFunc(text, func(tok string) string {
		m := templateTokenRE.FindStringSubmatch(tok)
		if len(m) != 2 {
			return ""
		}
		v, ok := s.Get(m[1])
		if !ok {
			return ""
		}
		return canonicalText(v)
	})
}

// canonicalText renders v the way template substitution requires: strings unquoted, everything
// else via its canonical JSON textual form. Built on tidwall/gjson+sjson (the teacher's own
// dependency) rather than hand-rolled type switching.
func canonicalText(v any) string {
	doc, err := sjson.Set(`{}`, "v", v)
	if err != nil {
		return ""
	}
	return gjson.Get(doc, "v").String()
}

// valueSize estimates the byte footprint of v for resource accounting, via its canonical JSON
// encoding rather than a hand-rolled recursive size walk.
func valueSize(v any) int {
	doc, err := sjson.Set(`{}`, "v", v)
	if err != nil {
		return 0
	}
	return len(gjson.Get(doc, "v").Raw)
}
