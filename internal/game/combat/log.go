package combat

import (
	"fmt"

	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// ActionKind labels an action log entry.
type ActionKind string

const (
	KindMoved     ActionKind = "moved"
	KindAttacked  ActionKind = "attacked"
	KindKilled    ActionKind = "killed"
	KindUsedSkill ActionKind = "used"
	KindPassed    ActionKind = "passed"
)

// LogEntry records one resolved action.
type LogEntry struct {
	Round  int
	Actor  string
	Kind   ActionKind
	Target string
	Damage int
	Skill  string
	From   grid.Coordinate
	To     grid.Coordinate
}

// String renders the entry as a single narrative line.
func (e LogEntry) String() string {
	switch e.Kind {
	case KindMoved:
		return fmt.Sprintf("%s moved %v -> %v", e.Actor, e.From, e.To)
	case KindAttacked:
		return fmt.Sprintf("%s attacked %s for %d", e.Actor, e.Target, e.Damage)
	case KindKilled:
		return fmt.Sprintf("%s killed %s (%d damage)", e.Actor, e.Target, e.Damage)
	case KindUsedSkill:
		return fmt.Sprintf("%s used %s", e.Actor, e.Skill)
	case KindPassed:
		return fmt.Sprintf("%s passed", e.Actor)
	default:
		return fmt.Sprintf("%s %s", e.Actor, e.Kind)
	}
}
