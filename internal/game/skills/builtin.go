package skills

import (
	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
)

// active carries what every built-in active skill shares.
type active struct {
	combat.NopHooks
	combat.Cooldown
	name   string
	amount dice.Expr
	roller *dice.Roller
}

func (a *active) Name() string { return a.name }

func (a *active) roll() int { return a.roller.Roll(a.amount).Total() }

// Bulwark shields every living player.
type Bulwark struct{ active }

// OnActivation grants one rolled shield amount to each living player.
func (s *Bulwark) OnActivation(b *combat.Battle, _ combat.Combatant) {
	n := s.roll()
	for _, p := range b.Players() {
		p.Shield(n)
	}
}

// Rally heals every living player.
type Rally struct{ active }

// OnActivation heals each living player by one rolled amount.
func (s *Rally) OnActivation(b *combat.Battle, _ combat.Combatant) {
	n := s.roll()
	for _, p := range b.Players() {
		p.Heal(n)
	}
}

// Berserk adds a rolled attack bonus for the rest of the round it is used in.
type Berserk struct {
	active
	bonus int
}

// OnActivation rolls the bonus.
func (s *Berserk) OnActivation(*combat.Battle, combat.Combatant) {
	s.bonus = s.roll()
}

// OnCalculateAttack adds the bonus while the skill is active this round.
func (s *Berserk) OnCalculateAttack(_, _ combat.Combatant, _ int, _ bool) int {
	if !s.ActivatedThisRound() {
		return 0
	}
	return s.bonus
}

// Ironhide adds flat defense to every hit the owner takes.
type Ironhide struct {
	combat.NopHooks
	amount dice.Expr
	roller *dice.Roller
}

// OnCalculateDefense implements combat.Hooks.
func (s *Ironhide) OnCalculateDefense(_, _ combat.Combatant, _ int, _ bool) int {
	return s.roller.Roll(s.amount).Total()
}

// Piercing adds true damage to every hit the owner deals.
type Piercing struct {
	combat.NopHooks
	amount dice.Expr
	roller *dice.Roller
}

// OnDealDamage implements combat.Hooks.
func (s *Piercing) OnDealDamage(_, _ combat.Combatant, damage int) int {
	return damage + s.roller.Roll(s.amount).Total()
}
