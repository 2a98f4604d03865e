package combat

import "github.com/cory-johannsen/gridtactics/internal/game/grid"

// Action is one per-turn command from the caller. The set is closed.
type Action interface {
	apply(b *Battle, obj Objective) ([]LogEntry, error)
}

// MoveAction steps a player one square.
type MoveAction struct {
	Player int
	Dir    grid.Direction
}

// MoveToAction moves a player to an explicit square.
type MoveToAction struct {
	Player int
	Dest   grid.Coordinate
}

// AttackAction has a player attack an enemy.
type AttackAction struct {
	Player int
	Enemy  int
}

// SkillAction fires a player's active skill.
type SkillAction struct {
	Player int
}

// EndTurnAction ends the player phase.
type EndTurnAction struct{}

func (a MoveAction) apply(b *Battle, _ Objective) ([]LogEntry, error) {
	return single(b.Move(a.Player, a.Dir))
}

func (a MoveToAction) apply(b *Battle, _ Objective) ([]LogEntry, error) {
	return single(b.MoveTo(a.Player, a.Dest))
}

func (a AttackAction) apply(b *Battle, _ Objective) ([]LogEntry, error) {
	return single(b.Attack(a.Player, a.Enemy))
}

func (a SkillAction) apply(b *Battle, _ Objective) ([]LogEntry, error) {
	return single(b.UseSkill(a.Player))
}

func (EndTurnAction) apply(b *Battle, obj Objective) ([]LogEntry, error) {
	start := len(b.log)
	err := b.EndTurn(obj)
	return append([]LogEntry(nil), b.log[start:]...), err
}

func single(e LogEntry, err error) ([]LogEntry, error) {
	if err != nil {
		return nil, err
	}
	return []LogEntry{e}, nil
}

// Apply performs a and then evaluates obj, so the returned battle state is
// always settled. Rejected actions change nothing.
//
// Postcondition: Returns the log entries the action produced.
func (b *Battle) Apply(a Action, obj Objective) ([]LogEntry, error) {
	entries, err := a.apply(b, obj)
	b.Evaluate(obj)
	return entries, err
}
