package combat

// Hooks are the extension points a skill exposes to the battle. Each hook is
// fired at a fixed moment and its return value, where there is one, is folded
// into the surrounding calculation.
type Hooks interface {
	// OnActivation fires when the owner uses the skill.
	OnActivation(b *Battle, owner Combatant)
	// OnAttack fires when the owner attacks, before any damage math.
	OnAttack(b *Battle, owner, target Combatant)
	// OnDefend fires when the owner is attacked, before any damage math.
	OnDefend(b *Battle, owner, attacker Combatant)
	// OnCalculateAttack returns an additive contribution to the owner's attack stat.
	OnCalculateAttack(owner, target Combatant, running int, physical bool) int
	// OnCalculateDefense returns an additive contribution to the owner's defense stat.
	OnCalculateDefense(owner, attacker Combatant, running int, physical bool) int
	// OnDealDamage returns the adjusted damage the owner deals to other.
	OnDealDamage(owner, other Combatant, damage int) int
	// OnTakeDamage returns the adjusted damage the owner takes from other.
	OnTakeDamage(owner, other Combatant, damage int) int
	// OnEndTurn fires once per round for a living owner.
	OnEndTurn(b *Battle, owner Combatant)
}

// ActiveSkill is a cooldown-gated skill with hooks.
type ActiveSkill interface {
	Hooks
	// Name is the display name used in the action log.
	Name() string
	// CanActivate reports whether the skill is ready.
	CanActivate() bool
	// MarkActivated puts the skill on cooldown.
	MarkActivated()
	// Tick advances the cooldown by one round.
	Tick()
}

// NopHooks implements Hooks with identity behaviour. Embed it and override only
// the hooks a skill needs.
type NopHooks struct{}

func (NopHooks) OnActivation(*Battle, Combatant) {}
func (NopHooks) OnAttack(*Battle, Combatant, Combatant) {}
func (NopHooks) OnDefend(*Battle, Combatant, Combatant) {}
func (NopHooks) OnCalculateAttack(Combatant, Combatant, int, bool) int { return 0 }
func (NopHooks) OnCalculateDefense(Combatant, Combatant, int, bool) int { return 0 }
func (NopHooks) OnDealDamage(_, _ Combatant, damage int) int { return damage }
func (NopHooks) OnTakeDamage(_, _ Combatant, damage int) int { return damage }
func (NopHooks) OnEndTurn(*Battle, Combatant) {}

// Cooldown is the activation state machine shared by active skills:
// ready -> activated this round -> counting down -> ready.
//
// Invariant: remaining is in [0, Length].
type Cooldown struct {
	// Length is the number of end-of-round ticks before the skill is ready again.
	Length    int
	remaining int
	activated bool
}

// NewCooldown returns a ready Cooldown of n rounds.
func NewCooldown(n int) Cooldown {
	if n < 0 {
		n = 0
	}
	return Cooldown{Length: n}
}

// CanActivate is true only when the skill was not used this round and the
// countdown has reached zero.
func (c *Cooldown) CanActivate() bool {
	return !c.activated && c.remaining == 0
}

// MarkActivated records a use and starts the countdown.
//
// Postcondition: CanActivate() is false until Length ticks have elapsed (at least one).
func (c *Cooldown) MarkActivated() {
	c.activated = true
	c.remaining = c.Length
}

// Tick clears the used-this-round flag and counts down by one.
//
// Postcondition: Remaining() >= 0.
func (c *Cooldown) Tick() {
	c.activated = false
	if c.remaining > 0 {
		c.remaining--
	}
}

// Remaining returns the rounds left before the skill is ready.
func (c *Cooldown) Remaining() int { return c.remaining }

// ActivatedThisRound reports whether the skill was used since the last tick.
func (c *Cooldown) ActivatedThisRound() bool { return c.activated }
