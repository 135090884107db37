package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level above LevelError admits
// every scope up to a limit; failures pass everywhere but LevelOff.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelSuite // driver and case-file spans
	LevelCase  // adds individual cases
	LevelDebug // adds engine operations
)

var levelNames = [...]string{"off", "error", "suite", "case", "debug"}

// scopeLimit is the finest scope a level admits; 0 admits none.
var scopeLimit = [...]Scope{LevelSuite: ScopeSuite, LevelCase: ScopeCase, LevelDebug: ScopeOp}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case; "" means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil //nolint:gosec // G115: index of a five-entry table
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether ordinary events of scope pass at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(scopeLimit) && scope <= scopeLimit[l]
}

// Allows decides for a concrete event.
func (l Level) Allows(ev *Event) bool {
	switch {
	case l == LevelOff || ev == nil:
		return false
	case ev.Kind == KindFailure:
		return true
	}
	return l.ShouldEmit(ev.Scope)
}
