package agentflow

import (
	"sync"
	"time"
)

// ExecutionEvent is a single observability event bracketing a node phase or flow run. Grounded
// on async_flow.rs's ExecutionEvent (node_id/event_type/timestamp/duration_ms/metadata).
type ExecutionEvent struct {
	NodeID     string
	EventType  string
	Timestamp  time.Time
	DurationMS *int64
	Metadata   map[string]string
}

// MetricsCollector is a thread-safe append-only event log plus an additive counter registry.
// Grounded on async_flow.rs's metrics_collector field and the flow_start/flow_success/
// flow_error/execution_count/duration_ms/success_count/error_count counters it increments.
// Stdlib-only (sync.Mutex + slice/map): this is a bespoke log and counter set, not a tracing or
// metrics-export pipeline, so pulling in OpenTelemetry or a Prometheus client would introduce a
// span/label model the spec never calls for.
type MetricsCollector struct {
	mu       sync.Mutex
	events   []ExecutionEvent
	counters map[string]float64
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{counters: make(map[string]float64)}
}

// RecordEvent appends ev to the event log.
func (m *MetricsCollector) RecordEvent(ev ExecutionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// IncrementCounter adds delta to the named counter, creating it at 0 if absent.
func (m *MetricsCollector) IncrementCounter(name string, delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

// SnapshotEvents returns a consistent copy of the event log.
func (m *MetricsCollector) SnapshotEvents() []ExecutionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExecutionEvent, len(m.events))
	copy(out, m.events)
	return out
}

// SnapshotCounters returns a consistent copy of the counter map.
func (m *MetricsCollector) SnapshotCounters() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

func durationMS(d time.Duration) *int64 {
	ms := d.Milliseconds()
	return &ms
}
