package resource

import "testing"

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	if l.MaxStateSize != 10*1024*1024 {
		t.Fatalf("MaxStateSize = %d", l.MaxStateSize)
	}
	if l.AutoCleanup {
		t.Fatal("AutoCleanup should default to false")
	}
}

func TestBuilderOverridesDefaults(t *testing.T) {
	l := NewBuilder().
		MaxStateSize(1000).
		MaxValueSize(100).
		MaxCacheEntries(5).
		CleanupThreshold(0.5).
		AutoCleanup(true).
		Build()

	if l.MaxStateSize != 1000 || l.MaxValueSize != 100 || l.MaxCacheEntries != 5 {
		t.Fatalf("unexpected limits: %+v", l)
	}
	if !l.AutoCleanup {
		t.Fatal("AutoCleanup should be true")
	}
	if l.CleanupThresholdBytes() != 500 {
		t.Fatalf("CleanupThresholdBytes() = %d, want 500", l.CleanupThresholdBytes())
	}
}

func TestLimitPredicates(t *testing.T) {
	l := Limits{MaxStateSize: 100, MaxValueSize: 10, MaxCacheEntries: 2, CleanupThreshold: 0.8}

	if !l.ExceedsValueLimit(11) {
		t.Fatal("expected value limit exceeded")
	}
	if l.ExceedsValueLimit(10) {
		t.Fatal("did not expect value limit exceeded at the boundary")
	}
	if !l.ExceedsStateLimit(101) {
		t.Fatal("expected state limit exceeded")
	}
	if !l.ExceedsCacheLimit(3) {
		t.Fatal("expected cache limit exceeded")
	}
	if !l.ShouldCleanup(80) {
		t.Fatal("expected cleanup threshold reached at 80")
	}
	if l.ShouldCleanup(79) {
		t.Fatal("did not expect cleanup threshold reached at 79")
	}
}
