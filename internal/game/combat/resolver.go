package combat

import "github.com/cory-johannsen/gridtactics/internal/game/stats"

// attackPair returns the attack and defense stat names used by attacker.
func attackPair(physical bool) (stats.Name, stats.Name) {
	if physical {
		return stats.PhysicalAttack, stats.PhysicalDefense
	}
	return stats.MagicalAttack, stats.MagicalDefense
}

// BaseDamage applies the damage floor to an attack and defense value.
//
// Postcondition: Returns max(1, attack-defense).
func BaseDamage(attack, defense int) int {
	if d := attack - defense; d > 1 {
		return d
	}
	return 1
}

// Damage computes the unmodified damage attacker would deal to defender: the
// physical pair when the attacker is physical, the magical pair otherwise.
// Skill hooks are not consulted; Battle folds them in when an attack resolves.
//
// Postcondition: Returns >= 1 regardless of the defender's defense.
func Damage(attacker, defender Combatant) int {
	atk, def := attackPair(attacker.IsPhysical())
	return BaseDamage(attacker.CalculateStat(atk), defender.CalculateStat(def))
}

// TakeDamage removes damage from the secondary pool first; any overflow spills
// into the primary pool. Negative damage is treated as zero.
//
// Postcondition: CurrentPrimaryHealth >= 0 and CurrentSecondaryHealth >= 0.
func (e *Entity) TakeDamage(damage int) {
	if damage < 0 {
		damage = 0
	}
	s := &e.Stats
	s.CurrentSecondaryHealth -= damage
	if s.CurrentSecondaryHealth < 0 {
		s.CurrentPrimaryHealth += s.CurrentSecondaryHealth
		s.CurrentSecondaryHealth = 0
	}
	if s.CurrentPrimaryHealth < 0 {
		s.CurrentPrimaryHealth = 0
	}
}

// Heal restores primary health up to the spawn maximum. Dead entities stay dead.
//
// Postcondition: CurrentPrimaryHealth <= MaxPrimaryHealth; returns the amount restored.
func (e *Entity) Heal(amount int) int {
	if amount <= 0 || !e.IsAlive() {
		return 0
	}
	s := &e.Stats
	before := s.CurrentPrimaryHealth
	s.CurrentPrimaryHealth += amount
	if s.CurrentPrimaryHealth > s.MaxPrimaryHealth {
		s.CurrentPrimaryHealth = s.MaxPrimaryHealth
	}
	return s.CurrentPrimaryHealth - before
}

// Shield adds to the secondary pool. Shields may exceed the spawn maximum.
// Dead entities cannot be shielded.
//
// Postcondition: Returns the amount added.
func (e *Entity) Shield(amount int) int {
	if amount <= 0 || !e.IsAlive() {
		return 0
	}
	e.Stats.CurrentSecondaryHealth += amount
	return amount
}
