// Package combat implements the grid tactics battle engine: combatants, stat
// resolution, the skill hook pipeline, turn phases and objectives.
//
// A Battle is driven by exactly one caller at a time and performs no locking.
package combat

import (
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
)

// Combatant is any entity that can stand on the board and trade blows.
type Combatant interface {
	// Stated returns the underlying entity holding name, stats and skills.
	Stated() *Entity
	// CalculateStat resolves the effective value of a stat.
	CalculateStat(n stats.Name) int
	// IsPhysical reports whether attacks use the physical attack/defense pair.
	IsPhysical() bool
	// Position returns the occupied square.
	Position() grid.Coordinate
	// IsPlayer reports whether the combatant is player-controlled.
	IsPlayer() bool
}

// Entity is a named stat block with optional skills. Weapons and artefacts are
// Entities too; they only ever act as modifier sources for a Character.
type Entity struct {
	Name    string
	Stats   stats.Block
	Active  ActiveSkill
	Passive Hooks
	// MovementRange is the number of squares the entity may cross per round.
	MovementRange int
	// CurrentMovementRange is what is left of MovementRange this round.
	CurrentMovementRange int
	// Index is the roster slot assigned when the battle starts.
	Index int
}

// Stated returns e.
func (e *Entity) Stated() *Entity { return e }

// CalculateStat returns raw + raw*tier_modifier, truncated toward zero.
//
// Postcondition: Deterministic and side-effect free.
func (e *Entity) CalculateStat(n stats.Name) int {
	return stats.Scale(e.Stats.Get(n).Raw(), e.Stats.TierPercent())
}

// IsPhysical reports whether the entity's own raw physical attack is positive.
func (e *Entity) IsPhysical() bool {
	return e.Stats.PhysicalAttack.Raw() > 0
}

// IsAlive reports whether either health pool is above zero.
func (e *Entity) IsAlive() bool {
	return e.Stats.CurrentPrimaryHealth > 0 || e.Stats.CurrentSecondaryHealth > 0
}

// hooks returns the entity's skill hooks, active skill first.
func (e *Entity) hooks() []Hooks {
	var out []Hooks
	if e.Active != nil {
		out = append(out, e.Active)
	}
	if e.Passive != nil {
		out = append(out, e.Passive)
	}
	return out
}

// Character is a player-controlled combatant composed of a base entity plus a
// weapon and an artefact. Equipment is fixed for the life of a battle.
type Character struct {
	Entity
	Weapon   *Entity
	Artefact *Entity
	Pos      grid.Coordinate
}

// NewCharacter builds a Character and derives its health pools once.
//
// Precondition: base must not be nil; weapon and artefact may be nil.
// Postcondition: Health pools are full and CurrentMovementRange == MovementRange.
func NewCharacter(base Entity, weapon, artefact *Entity) *Character {
	c := &Character{Entity: base, Weapon: weapon, Artefact: artefact}
	Spawn(c)
	return c
}

// CalculateStat returns (raw_self + raw_weapon + raw_artefact) *
// (1 + tier_modifier_self + modifier_weapon + modifier_artefact), truncated toward zero.
//
// Postcondition: Deterministic and side-effect free; never cached.
func (c *Character) CalculateStat(n stats.Name) int {
	raw := c.Stats.Get(n).Raw()
	percent := c.Stats.TierPercent()
	for _, eq := range c.equipment() {
		s := eq.Stats.Get(n)
		raw += s.Raw()
		percent += s.Modifier()
	}
	return stats.Scale(raw, percent)
}

// IsPhysical is decided by the weapon. Without a weapon the character's own
// raw physical attack decides.
func (c *Character) IsPhysical() bool {
	if c.Weapon != nil {
		return c.Weapon.Stats.PhysicalAttack.Raw() > 0
	}
	return c.Entity.IsPhysical()
}

// Position returns the occupied square.
func (c *Character) Position() grid.Coordinate { return c.Pos }

// IsPlayer returns true.
func (c *Character) IsPlayer() bool { return true }

func (c *Character) equipment() []*Entity {
	var out []*Entity
	if c.Weapon != nil {
		out = append(out, c.Weapon)
	}
	if c.Artefact != nil {
		out = append(out, c.Artefact)
	}
	return out
}

// Enemy is an AI-controlled combatant with no equipment.
type Enemy struct {
	Entity
	Description string
	// Behavior names the controller that drives this enemy; empty means the default.
	Behavior string
	Pos      grid.Coordinate
}

// NewEnemy builds an Enemy and derives its health pools once.
//
// Postcondition: Health pools are full and CurrentMovementRange == MovementRange.
func NewEnemy(base Entity, description string) *Enemy {
	e := &Enemy{Entity: base, Description: description}
	Spawn(e)
	return e
}

// Position returns the occupied square.
func (e *Enemy) Position() grid.Coordinate { return e.Pos }

// IsPlayer returns false.
func (e *Enemy) IsPlayer() bool { return false }

// Spawn derives the max and current health pools from the resolved stats and
// refills movement. It is called once at construction; later damage and healing
// mutate the pools directly.
//
// Postcondition: Max pools equal the resolved stats; current pools equal max.
func Spawn(c Combatant) {
	e := c.Stated()
	e.Stats.MaxPrimaryHealth = c.CalculateStat(stats.PrimaryHealth)
	e.Stats.MaxSecondaryHealth = c.CalculateStat(stats.SecondaryHealth)
	e.Stats.CurrentPrimaryHealth = e.Stats.MaxPrimaryHealth
	e.Stats.CurrentSecondaryHealth = e.Stats.MaxSecondaryHealth
	e.CurrentMovementRange = e.MovementRange
}
