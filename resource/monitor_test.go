package resource

import "testing"

func TestRecordAllocationTracksSizeAndCount(t *testing.T) {
	m := New(Limits{MaxStateSize: 1000, MaxValueSize: 500, MaxCacheEntries: 10, CleanupThreshold: 0.8})

	if ok := m.RecordAllocation("a", 100); !ok {
		t.Fatal("expected allocation to succeed")
	}
	if ok := m.RecordAllocation("b", 50); !ok {
		t.Fatal("expected allocation to succeed")
	}

	if got := m.CurrentSize(); got != 150 {
		t.Fatalf("CurrentSize() = %d, want 150", got)
	}
	if got := m.ValueCount(); got != 2 {
		t.Fatalf("ValueCount() = %d, want 2", got)
	}
}

func TestRecordAllocationRejectsOversizedValue(t *testing.T) {
	m := New(Limits{MaxStateSize: 1000, MaxValueSize: 10, MaxCacheEntries: 10, CleanupThreshold: 0.8})

	if ok := m.RecordAllocation("a", 11); ok {
		t.Fatal("expected oversized value allocation to be rejected")
	}
	if got := m.CurrentSize(); got != 0 {
		t.Fatalf("CurrentSize() = %d, want 0 after rejected allocation", got)
	}
}

func TestRecordAllocationRejectsStateOverflowWithoutAutoCleanup(t *testing.T) {
	m := New(Limits{MaxStateSize: 100, MaxValueSize: 1000, MaxCacheEntries: 10, CleanupThreshold: 0.8, AutoCleanup: false})

	if ok := m.RecordAllocation("a", 50); !ok {
		t.Fatal("expected first allocation to fit")
	}
	if ok := m.RecordAllocation("b", 60); ok {
		t.Fatal("expected second allocation to overflow MaxStateSize and be rejected")
	}
	if got := m.CurrentSize(); got != 50 {
		t.Fatalf("CurrentSize() = %d, want 50 (rejected allocation rolled back)", got)
	}
}

func TestRecordAllocationAllowsStateOverflowWithAutoCleanup(t *testing.T) {
	m := New(Limits{MaxStateSize: 100, MaxValueSize: 1000, MaxCacheEntries: 10, CleanupThreshold: 0.8, AutoCleanup: true})

	m.RecordAllocation("a", 50)
	if ok := m.RecordAllocation("b", 60); !ok {
		t.Fatal("expected allocation to succeed when AutoCleanup is enabled")
	}
	if got := m.CurrentSize(); got != 110 {
		t.Fatalf("CurrentSize() = %d, want 110", got)
	}
}

func TestRecordDeallocationRestoresSize(t *testing.T) {
	m := New(DefaultLimits())
	m.RecordAllocation("a", 100)
	m.RecordDeallocation("a")

	if got := m.CurrentSize(); got != 0 {
		t.Fatalf("CurrentSize() = %d, want 0", got)
	}
	if got := m.ValueCount(); got != 0 {
		t.Fatalf("ValueCount() = %d, want 0", got)
	}
}

func TestLRUKeysOrderedOldestFirst(t *testing.T) {
	m := New(DefaultLimits())
	m.RecordAllocation("a", 1)
	m.RecordAllocation("b", 1)
	m.RecordAllocation("c", 1)
	m.RecordAccess("a") // touching "a" moves it to most-recently-used

	keys := m.LRUKeys(3)
	if len(keys) != 3 {
		t.Fatalf("LRUKeys(3) returned %d keys, want 3", len(keys))
	}
	if keys[0] != "b" {
		t.Fatalf("expected %q to be oldest after touching %q, got order %v", "b", "a", keys)
	}
	if keys[len(keys)-1] != "a" {
		t.Fatalf("expected %q to be newest after access, got order %v", "a", keys)
	}
}

func TestCleanupEvictsOldestUntilTargetFraction(t *testing.T) {
	m := New(Limits{MaxStateSize: 100, MaxValueSize: 1000, MaxCacheEntries: 100, CleanupThreshold: 0.8, AutoCleanup: true})

	m.RecordAllocation("a", 30)
	m.RecordAllocation("b", 30)
	m.RecordAllocation("c", 30)

	freed, removed := m.Cleanup(0.5)
	if removed == 0 {
		t.Fatal("expected cleanup to remove at least one entry")
	}
	if freed == 0 {
		t.Fatal("expected cleanup to free some bytes")
	}
	if m.CurrentSize() > 50 {
		t.Fatalf("CurrentSize() = %d, want <= 50 after cleanup to 0.5 fraction of 100", m.CurrentSize())
	}
}

func TestShouldCleanupReflectsThreshold(t *testing.T) {
	m := New(Limits{MaxStateSize: 100, MaxValueSize: 1000, MaxCacheEntries: 100, CleanupThreshold: 0.8, AutoCleanup: true})
	if m.ShouldCleanup() {
		t.Fatal("fresh monitor should not need cleanup")
	}
	m.RecordAllocation("a", 90)
	if !m.ShouldCleanup() {
		t.Fatal("monitor at 90% of MaxStateSize should need cleanup (threshold 80%)")
	}
}

func TestNewFastDisablesLRUTracking(t *testing.T) {
	m := NewFast(DefaultLimits())
	m.RecordAllocation("a", 10)

	if got := m.ValueCount(); got != 1 {
		t.Fatalf("ValueCount() = %d, want 1", got)
	}
	if keys := m.LRUKeys(10); keys != nil {
		t.Fatalf("LRUKeys() = %v, want nil when detailed tracking is disabled", keys)
	}
}

func TestAlertsDrainsLog(t *testing.T) {
	m := New(Limits{MaxStateSize: 100, MaxValueSize: 10, MaxCacheEntries: 10, CleanupThreshold: 0.8})
	m.RecordAllocation("a", 20) // triggers a value-size-limit alert

	if len(m.PeekAlerts()) == 0 {
		t.Fatal("expected at least one alert after an oversized allocation")
	}
	alerts := m.Alerts()
	if len(alerts) == 0 {
		t.Fatal("expected Alerts() to return the accumulated alert")
	}
	if len(m.PeekAlerts()) != 0 {
		t.Fatal("expected Alerts() to clear the log")
	}
}

func TestResetClearsState(t *testing.T) {
	m := New(DefaultLimits())
	m.RecordAllocation("a", 10)
	m.Reset()

	if got := m.CurrentSize(); got != 0 {
		t.Fatalf("CurrentSize() = %d, want 0 after Reset", got)
	}
	if got := m.ValueCount(); got != 0 {
		t.Fatalf("ValueCount() = %d, want 0 after Reset", got)
	}
	if len(m.PeekAlerts()) != 0 {
		t.Fatal("expected alerts cleared after Reset")
	}
}
