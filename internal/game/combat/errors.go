package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// Illegal movement. Every specific reason matches ErrInvalidPosition with errors.Is.
var (
	ErrInvalidPosition   = errors.New("invalid position")
	ErrOutOfBounds       = fmt.Errorf("%w: out of bounds", ErrInvalidPosition)
	ErrNotWalkable       = fmt.Errorf("%w: tile is not walkable", ErrInvalidPosition)
	ErrOccupied          = fmt.Errorf("%w: tile is occupied", ErrInvalidPosition)
	ErrInsufficientRange = fmt.Errorf("%w: insufficient movement range", ErrInvalidPosition)
)

// Illegal attacks.
var (
	ErrIllegalAttack = errors.New("illegal attack")
	ErrNotAdjacent   = fmt.Errorf("%w: target is not adjacent", ErrIllegalAttack)
	ErrTargetDead    = fmt.Errorf("%w: target is already dead", ErrIllegalAttack)
)

// Skill use.
var (
	ErrSkillUnavailable = errors.New("skill unavailable")
	ErrNoSkill          = fmt.Errorf("%w: no active skill", ErrSkillUnavailable)
	ErrSkillOnCooldown  = fmt.Errorf("%w: on cooldown or already used this round", ErrSkillUnavailable)
)

// Caller errors.
var (
	ErrBattleResolved   = errors.New("battle is already resolved")
	ErrBattleNotStarted = errors.New("battle has not been initialised")
	ErrWrongPhase       = errors.New("action not allowed in this phase")
	ErrUnknownCombatant = errors.New("unknown combatant")
	ErrActorDead        = errors.New("acting combatant is dead")
)

// MoveError describes a rejected move. It unwraps to one of the movement sentinels.
type MoveError struct {
	Actor string
	From  grid.Coordinate
	To    grid.Coordinate
	Err   error
}

// Error implements error.
func (e *MoveError) Error() string {
	return fmt.Sprintf("%s cannot move %v -> %v: %v", e.Actor, e.From, e.To, e.Err)
}

// Unwrap returns the movement sentinel.
func (e *MoveError) Unwrap() error { return e.Err }
