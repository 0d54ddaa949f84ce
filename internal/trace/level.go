package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel accepts a level name in any case; "" means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope are kept at this level.
func (l Level) Allows(scope Scope) bool {
	if l < LevelPhase {
		return false
	}
	// phase -> до pass, detail -> до file, debug -> всё
	return int(scope) <= int(l)
}

func (l Level) keeps(ev *Event) bool {
	if ev.Error {
		return l > LevelOff
	}
	return l.Allows(ev.Scope)
}
