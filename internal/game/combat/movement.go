package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// ValidateMovement checks whether c may move to dest right now. The checks run
// in a fixed order so the first violated rule is the one reported.
//
// Precondition: c is on the board.
// Postcondition: Returns nil, or a *MoveError unwrapping to ErrOutOfBounds,
// ErrNotWalkable, ErrOccupied or ErrInsufficientRange. Never mutates state.
func (b *Battle) ValidateMovement(c Combatant, dest grid.Coordinate) error {
	e := c.Stated()
	from := c.Position()
	reject := func(err error) error {
		return &MoveError{Actor: e.Name, From: from, To: dest, Err: err}
	}
	if !b.field.Size().Contains(dest) {
		return reject(ErrOutOfBounds)
	}
	if !b.field.IsWalkable(dest) {
		return reject(ErrNotWalkable)
	}
	if occ := b.OccupantAt(dest); occ != nil && occ.Stated() != e {
		return reject(ErrOccupied)
	}
	if from.Distance(dest) > e.CurrentMovementRange {
		return reject(ErrInsufficientRange)
	}
	return nil
}

// IsValidMovement is the non-failing form of ValidateMovement, for callers that
// only want to offer legal choices.
func (b *Battle) IsValidMovement(c Combatant, dest grid.Coordinate) bool {
	return b.ValidateMovement(c, dest) == nil
}

// Move steps player idx one square in dir.
//
// Precondition: Phase() == PhasePlayer.
// Postcondition: On success the character stands on the new square with its
// movement range reduced by one; on failure nothing changes.
func (b *Battle) Move(idx int, dir grid.Direction) (LogEntry, error) {
	c, err := b.actingPlayer(idx)
	if err != nil {
		return LogEntry{}, err
	}
	if dx, dy := dir.Delta(); dx == 0 && dy == 0 {
		return LogEntry{}, fmt.Errorf("move: unknown direction %q", dir)
	}
	return b.MoveTo(idx, c.Pos.Add(dir))
}

// MoveTo moves player idx straight to dest. Only Manhattan distance is charged;
// intermediate squares are not checked.
//
// Precondition: Phase() == PhasePlayer.
// Postcondition: On success CurrentMovementRange drops by the distance moved and
// a KindMoved entry is logged; on failure nothing changes.
func (b *Battle) MoveTo(idx int, dest grid.Coordinate) (LogEntry, error) {
	c, err := b.actingPlayer(idx)
	if err != nil {
		return LogEntry{}, err
	}
	if err := b.ValidateMovement(c, dest); err != nil {
		return LogEntry{}, err
	}
	return b.relocate(&c.Entity, &c.Pos, dest), nil
}

// relocate moves an already validated combatant and logs it.
func (b *Battle) relocate(e *Entity, pos *grid.Coordinate, dest grid.Coordinate) LogEntry {
	from := *pos
	e.CurrentMovementRange -= from.Distance(dest)
	*pos = dest
	return b.record(LogEntry{Actor: e.Name, Kind: KindMoved, From: from, To: dest})
}

// actingPlayer returns player idx after checking that players may act.
func (b *Battle) actingPlayer(idx int) (*Character, error) {
	if err := b.requirePhase(PhasePlayer); err != nil {
		return nil, err
	}
	c, err := b.Player(idx)
	if err != nil {
		return nil, err
	}
	if !c.IsAlive() {
		return nil, fmt.Errorf("%s: %w", c.Name, ErrActorDead)
	}
	return c, nil
}

// AdvanceEnemy walks e along path, one validated step at a time, stopping at
// the end of the path, when movement runs out or at the first blocked square.
// Only the enemy phase may call it.
//
// Precondition: path starts adjacent to e and excludes e's own square.
// Postcondition: Returns the number of squares moved. A blocked step ends the
// walk without error; earlier steps stand.
func (b *Battle) AdvanceEnemy(e *Enemy, path []grid.Coordinate) (int, error) {
	if err := b.enemyMayAct(e); err != nil {
		return 0, err
	}
	steps := 0
	for _, next := range path {
		if e.CurrentMovementRange <= 0 {
			break
		}
		if err := b.ValidateMovement(e, next); err != nil {
			b.logger.Debug("enemy advance halted",
				zap.String("enemy", e.Name),
				zap.Stringer("at", e.Pos),
				zap.Error(err),
			)
			break
		}
		b.relocate(&e.Entity, &e.Pos, next)
		steps++
	}
	return steps, nil
}
