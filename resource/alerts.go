package resource

import "fmt"

// AlertKind is the closed taxonomy of resource alerts a Monitor can raise.
type AlertKind int

const (
	AlertApproachingLimit AlertKind = iota
	AlertLimitExceeded
	AlertCleanupTriggered
	AlertCleanupFailed
)

// Alert is a single resource alert, shaped like state_monitor.rs's ResourceAlert enum with all
// variant fields flattened (only the fields relevant to Kind are populated).
type Alert struct {
	Kind AlertKind

	Resource   string
	Percentage float64
	Current    int
	Limit      int

	Freed          int
	EntriesRemoved int

	Message string
}

func (a Alert) String() string {
	switch a.Kind {
	case AlertApproachingLimit:
		return fmt.Sprintf("approaching limit for %s: %.1f%% (%d/%d)", a.Resource, a.Percentage*100, a.Current, a.Limit)
	case AlertLimitExceeded:
		return fmt.Sprintf("limit exceeded for %s: %d > %d", a.Resource, a.Current, a.Limit)
	case AlertCleanupTriggered:
		return fmt.Sprintf("cleanup triggered: freed %d bytes, removed %d entries", a.Freed, a.EntriesRemoved)
	case AlertCleanupFailed:
		return fmt.Sprintf("cleanup failed: %s", a.Message)
	default:
		return "unknown resource alert"
	}
}
