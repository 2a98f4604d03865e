package combat

import "fmt"

// Attack has player idx strike enemy enemyIdx.
//
// Precondition: Phase() == PhasePlayer.
// Postcondition: On success the enemy has taken damage and a KindAttacked or
// KindKilled entry is logged. ErrNotAdjacent and ErrTargetDead leave the battle
// untouched.
func (b *Battle) Attack(idx, enemyIdx int) (LogEntry, error) {
	c, err := b.actingPlayer(idx)
	if err != nil {
		return LogEntry{}, err
	}
	target, err := b.Enemy(enemyIdx)
	if err != nil {
		return LogEntry{}, err
	}
	if err := checkTarget(c, target); err != nil {
		return LogEntry{}, err
	}
	return b.strike(c, target), nil
}

// UseSkill fires the active skill of player idx and puts it on cooldown.
//
// Precondition: Phase() == PhasePlayer.
// Postcondition: ErrNoSkill or ErrSkillOnCooldown leave the skill untouched;
// on success OnActivation has run and CanActivate() is false.
func (b *Battle) UseSkill(idx int) (LogEntry, error) {
	c, err := b.actingPlayer(idx)
	if err != nil {
		return LogEntry{}, err
	}
	return b.activate(c)
}

// EnemySkill fires the active skill of e during the enemy phase.
//
// Precondition: Phase() == PhaseEnemy.
// Postcondition: Same as UseSkill.
func (b *Battle) EnemySkill(e *Enemy) (LogEntry, error) {
	if err := b.enemyMayAct(e); err != nil {
		return LogEntry{}, err
	}
	return b.activate(e)
}

func (b *Battle) activate(c Combatant) (LogEntry, error) {
	ent := c.Stated()
	skill := ent.Active
	if skill == nil {
		return LogEntry{}, fmt.Errorf("%s: %w", ent.Name, ErrNoSkill)
	}
	if !skill.CanActivate() {
		return LogEntry{}, fmt.Errorf("%s %s: %w", ent.Name, skill.Name(), ErrSkillOnCooldown)
	}
	skill.OnActivation(b, c)
	skill.MarkActivated()
	return b.record(LogEntry{Actor: ent.Name, Kind: KindUsedSkill, Skill: skill.Name()}), nil
}

// EnemyAttack has e strike target during the enemy phase.
//
// Precondition: Phase() == PhaseEnemy.
func (b *Battle) EnemyAttack(e *Enemy, target *Character) (LogEntry, error) {
	if err := b.enemyMayAct(e); err != nil {
		return LogEntry{}, err
	}
	if err := checkTarget(e, target); err != nil {
		return LogEntry{}, err
	}
	return b.strike(e, target), nil
}

// EnemyPass logs that e did nothing this round.
//
// Precondition: Phase() == PhaseEnemy.
func (b *Battle) EnemyPass(e *Enemy) (LogEntry, error) {
	if err := b.enemyMayAct(e); err != nil {
		return LogEntry{}, err
	}
	return b.record(LogEntry{Actor: e.Name, Kind: KindPassed}), nil
}

func (b *Battle) enemyMayAct(e *Enemy) error {
	if err := b.requirePhase(PhaseEnemy); err != nil {
		return err
	}
	if e == nil || e.Index < 0 || e.Index >= len(b.enemies) || b.enemies[e.Index] != e {
		return fmt.Errorf("enemy: %w", ErrUnknownCombatant)
	}
	if !e.IsAlive() {
		return fmt.Errorf("%s: %w", e.Name, ErrActorDead)
	}
	return nil
}

func checkTarget(attacker, target Combatant) error {
	t := target.Stated()
	if !t.IsAlive() {
		return fmt.Errorf("%s: %w", t.Name, ErrTargetDead)
	}
	if !attacker.Position().Adjacent(target.Position()) {
		return fmt.Errorf("%s at %v: %w", t.Name, target.Position(), ErrNotAdjacent)
	}
	return nil
}

// strike resolves one attack through the hook pipeline: OnAttack/OnDefend,
// additive stat contributions, the damage floor, then the true-damage hooks.
//
// Postcondition: The defender loses at least 1 point of health.
func (b *Battle) strike(attacker, defender Combatant) LogEntry {
	a, d := attacker.Stated(), defender.Stated()
	for _, h := range a.hooks() {
		h.OnAttack(b, attacker, defender)
	}
	for _, h := range d.hooks() {
		h.OnDefend(b, defender, attacker)
	}

	physical := attacker.IsPhysical()
	atkStat, defStat := attackPair(physical)
	atk := attacker.CalculateStat(atkStat)
	for _, h := range a.hooks() {
		atk += h.OnCalculateAttack(attacker, defender, atk, physical)
	}
	def := defender.CalculateStat(defStat)
	for _, h := range d.hooks() {
		def += h.OnCalculateDefense(defender, attacker, def, physical)
	}

	damage := BaseDamage(atk, def)
	for _, h := range a.hooks() {
		damage = h.OnDealDamage(attacker, defender, damage)
	}
	for _, h := range d.hooks() {
		damage = h.OnTakeDamage(defender, attacker, damage)
	}
	if damage < 1 {
		damage = 1
	}

	d.TakeDamage(damage)
	kind := KindAttacked
	if !d.IsAlive() {
		kind = KindKilled
	}
	return b.record(LogEntry{Actor: a.Name, Kind: kind, Target: d.Name, Damage: damage})
}
