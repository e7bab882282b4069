package plex

import (
	"fmt"
	"strings"
)

// Priority represents the tier a handler is called in.
// Handlers are called in ascending order: Lowest → Low → Normal → High → Highest → Monitor.
type Priority int

const (
	// Lowest runs first. Use for handlers that want to see the event before
	// anyone else has had a chance to modify it.
	Lowest Priority = iota

	// Low runs after Lowest.
	Low

	// Normal is the default tier for most gameplay handlers.
	Normal

	// High runs after Normal. Use for handlers that want a late say in the outcome.
	High

	// Highest runs last among handlers that may modify the event.
	Highest

	// Monitor runs after everything else. Handlers in this tier should only observe
	// the outcome and never modify the event.
	Monitor

	// priorityCount is the total number of priorities.
	priorityCount
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	switch p {
	case Lowest:
		return "Lowest"
	case Low:
		return "Low"
	case Normal:
		return "Normal"
	case High:
		return "High"
	case Highest:
		return "Highest"
	case Monitor:
		return "Monitor"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	return p >= Lowest && p < priorityCount
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	for p := Lowest; p < priorityCount; p++ {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("plex: unknown priority %q", s)
}

// tierMask records which priorities hold at least one handler.
type tierMask uint8

func (m *tierMask) set(p Priority) {
	*m |= 1 << p
}

func (m tierMask) has(p Priority) bool {
	return m&(1<<p) != 0
}
