package resource

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// unboundedLRUCapacity is large enough that simplelru never auto-evicts on its own; eviction in
// this package is driven entirely by Monitor.Cleanup, not by the underlying list's capacity.
const unboundedLRUCapacity = 1 << 30

// Monitor is a real-time resource usage monitor for workflow execution: tracks per-key byte
// allocations and value counts, triggers alerts when limits are approached or exceeded, and
// performs LRU-ordered cleanup on demand. Grounded on
// original_source/agentflow-core/src/state_monitor.rs; the LRU ordering itself is delegated to
// hashicorp/golang-lru/v2's simplelru rather than a hand-rolled linked list.
type Monitor struct {
	mu sync.Mutex

	limits Limits

	currentSize int
	valueCount  int
	allocations map[string]int
	order       *lru.LRU[string, struct{}]
	alerts      []Alert

	detailedTracking bool
}

// New creates a Monitor with detailed per-key tracking (LRU ordering, allocation map) enabled.
func New(limits Limits) *Monitor {
	return newMonitor(limits, true)
}

// NewFast creates a Monitor with detailed tracking disabled: global counters are still
// maintained, but LRU ordering and cleanup are unavailable (matching state_monitor.rs's
// `new_fast` / `detailed_tracking = false` mode for hot paths).
func NewFast(limits Limits) *Monitor {
	return newMonitor(limits, false)
}

func newMonitor(limits Limits, detailed bool) *Monitor {
	order, _ := lru.NewLRU[string, struct{}](unboundedLRUCapacity, nil)
	return &Monitor{
		limits:           limits,
		allocations:      make(map[string]int),
		order:            order,
		detailedTracking: detailed,
	}
}

func (m *Monitor) Limits() Limits { return m.limits }

func (m *Monitor) CurrentSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentSize
}

func (m *Monitor) ValueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.valueCount
}

func (m *Monitor) UsagePercentage() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.limits.MaxStateSize == 0 {
		return 0
	}
	pct := float64(m.currentSize) / float64(m.limits.MaxStateSize)
	if pct > 1 {
		pct = 1
	}
	return pct
}

// RecordAllocation records a size-byte allocation for key, returning false if the allocation
// was rejected (value-size limit always rejects; state-size/cache-entry limits reject only when
// AutoCleanup is disabled, per state_monitor.rs's record_allocation).
func (m *Monitor) RecordAllocation(key string, size int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.limits.ExceedsValueLimit(size) {
		m.addAlertLocked(Alert{Kind: AlertLimitExceeded, Resource: "value_size", Current: size, Limit: m.limits.MaxValueSize})
		return false
	}

	var delta, old int
	if m.detailedTracking {
		old = m.allocations[key]
		delta = size - old
		if size > 0 {
			m.allocations[key] = size
		} else {
			delete(m.allocations, key)
		}
	} else {
		delta = size
	}

	// rollback undoes the size and per-key changes of a rejected allocation.
	rollback := func() {
		m.currentSize -= delta
		if m.detailedTracking {
			if old > 0 {
				m.allocations[key] = old
			} else {
				delete(m.allocations, key)
			}
		}
	}

	if delta > 0 {
		newSize := m.currentSize + delta
		m.currentSize = newSize

		if m.limits.ExceedsStateLimit(newSize) {
			m.addAlertLocked(Alert{Kind: AlertLimitExceeded, Resource: "state_size", Current: newSize, Limit: m.limits.MaxStateSize})
			if !m.limits.AutoCleanup {
				rollback()
				return false
			}
		}

		if m.limits.ShouldCleanup(newSize) {
			pct := float64(newSize) / float64(m.limits.MaxStateSize)
			m.addAlertLocked(Alert{Kind: AlertApproachingLimit, Resource: "state_size", Percentage: pct, Current: newSize, Limit: m.limits.MaxStateSize})
		}
	} else if delta < 0 {
		m.currentSize += delta
	}

	if m.detailedTracking {
		newCount := len(m.allocations)
		m.valueCount = newCount

		if m.limits.ExceedsCacheLimit(newCount) {
			m.addAlertLocked(Alert{Kind: AlertLimitExceeded, Resource: "cache_entries", Current: newCount, Limit: m.limits.MaxCacheEntries})
			if !m.limits.AutoCleanup {
				rollback()
				m.valueCount = len(m.allocations)
				return false
			}
		}
	} else if size > 0 {
		m.valueCount++
	}

	if m.detailedTracking {
		m.order.Add(key, struct{}{})
	}

	return true
}

// RecordDeallocation removes key's tracked allocation, if any, and restores current_size /
// value_count. In fast mode (NewFast) per-key sizes are not tracked, so only value_count is
// decremented; current_size is left unchanged.
func (m *Monitor) RecordDeallocation(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.detailedTracking {
		if m.valueCount > 0 {
			m.valueCount--
		}
		return
	}

	size, ok := m.allocations[key]
	delete(m.allocations, key)
	if ok && size > 0 {
		m.currentSize -= size
		m.valueCount = len(m.allocations)
	}
	m.order.Remove(key)
}

// RecordAccess marks key as most-recently-used for LRU purposes, without changing its size.
func (m *Monitor) RecordAccess(key string) {
	if !m.detailedTracking {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[key]; ok {
		m.order.Get(key)
	}
}

// LRUKeys returns up to count keys ordered oldest-access-first.
func (m *Monitor) LRUKeys(count int) []string {
	if !m.detailedTracking {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := m.order.Keys()
	if count < len(keys) {
		keys = keys[:count]
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Allocations returns a snapshot of key -> size.
func (m *Monitor) Allocations() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.allocations))
	for k, v := range m.allocations {
		out[k] = v
	}
	return out
}

// ShouldCleanup reports whether current usage already warrants a Cleanup call.
func (m *Monitor) ShouldCleanup() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limits.ShouldCleanup(m.currentSize) || m.limits.ExceedsCacheLimit(m.valueCount)
}

// Cleanup evicts least-recently-used entries until current_size <= max_state_size *
// targetFraction, returning bytes freed and entries removed.
func (m *Monitor) Cleanup(targetFraction float64) (freed int, removed int) {
	m.mu.Lock()
	if !m.detailedTracking {
		m.mu.Unlock()
		return 0, 0
	}

	targetSize := int(float64(m.limits.MaxStateSize) * targetFraction)
	current := m.currentSize
	if current <= targetSize {
		m.mu.Unlock()
		return 0, 0
	}
	toFree := current - targetSize

	allocSnapshot := make(map[string]int, len(m.allocations))
	for k, v := range m.allocations {
		allocSnapshot[k] = v
	}
	lruKeys := m.order.Keys()
	m.mu.Unlock()

	for _, key := range lruKeys {
		if freed >= toFree {
			break
		}
		if size, ok := allocSnapshot[key]; ok {
			m.RecordDeallocation(key)
			freed += size
			removed++
		}
	}

	if freed > 0 {
		m.mu.Lock()
		m.addAlertLocked(Alert{Kind: AlertCleanupTriggered, Freed: freed, EntriesRemoved: removed})
		m.mu.Unlock()
	}

	return freed, removed
}

func (m *Monitor) addAlertLocked(a Alert) {
	m.alerts = append(m.alerts, a)
}

// Alerts returns all accumulated alerts and clears the alert log.
func (m *Monitor) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	alerts := m.alerts
	m.alerts = nil
	return alerts
}

// PeekAlerts returns a copy of accumulated alerts without clearing the log.
func (m *Monitor) PeekAlerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Reset clears all monitoring state back to zero.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentSize = 0
	m.valueCount = 0
	if m.detailedTracking {
		m.allocations = make(map[string]int)
		order, _ := lru.NewLRU[string, struct{}](unboundedLRUCapacity, nil)
		m.order = order
	}
	m.alerts = nil
}
