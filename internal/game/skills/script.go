package skills

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/scripting"
)

// Lua global names for each hook.
const (
	HookActivation       = "on_activation"
	HookAttack           = "on_attack"
	HookDefend           = "on_defend"
	HookCalculateAttack  = "on_calculate_attack"
	HookCalculateDefense = "on_calculate_defense"
	HookDealDamage       = "on_deal_damage"
	HookTakeDamage       = "on_take_damage"
	HookEndTurn          = "on_end_turn"
)

// ScriptHooks forwards every hook to a Lua script. Hooks the script does not
// define behave as identity. The engine module is bound only for hooks that
// receive the battle; calculation hooks are pure.
type ScriptHooks struct {
	scripts *scripting.Manager
	id      string
	logger  *zap.Logger
}

func (s *ScriptHooks) call(b *combat.Battle, hook string, args ...any) {
	var eng scripting.Engine
	if b != nil {
		eng = NewEngine(b)
	}
	if _, err := s.scripts.CallHook(s.id, hook, eng, args...); err != nil {
		s.logger.Warn("skill script call failed", zap.String("script", s.id), zap.String("hook", hook), zap.Error(err))
	}
}

func (s *ScriptHooks) number(hook string, fallback int, args ...any) int {
	n, ok, err := s.scripts.CallNumber(s.id, hook, nil, args...)
	if err != nil {
		s.logger.Warn("skill script call failed", zap.String("script", s.id), zap.String("hook", hook), zap.Error(err))
	}
	if !ok {
		return fallback
	}
	return n
}

func (s *ScriptHooks) OnActivation(b *combat.Battle, owner combat.Combatant) {
	s.call(b, HookActivation, Info(owner))
}

func (s *ScriptHooks) OnAttack(b *combat.Battle, owner, target combat.Combatant) {
	s.call(b, HookAttack, Info(owner), Info(target))
}

func (s *ScriptHooks) OnDefend(b *combat.Battle, owner, attacker combat.Combatant) {
	s.call(b, HookDefend, Info(owner), Info(attacker))
}

func (s *ScriptHooks) OnCalculateAttack(owner, target combat.Combatant, running int, physical bool) int {
	return s.number(HookCalculateAttack, 0, Info(owner), Info(target), running, physical)
}

func (s *ScriptHooks) OnCalculateDefense(owner, attacker combat.Combatant, running int, physical bool) int {
	return s.number(HookCalculateDefense, 0, Info(owner), Info(attacker), running, physical)
}

func (s *ScriptHooks) OnDealDamage(owner, other combat.Combatant, damage int) int {
	return s.number(HookDealDamage, damage, Info(owner), Info(other), damage)
}

func (s *ScriptHooks) OnTakeDamage(owner, other combat.Combatant, damage int) int {
	return s.number(HookTakeDamage, damage, Info(owner), Info(other), damage)
}

func (s *ScriptHooks) OnEndTurn(b *combat.Battle, owner combat.Combatant) {
	s.call(b, HookEndTurn, Info(owner))
}

// Script is a cooldown-gated active skill backed by a Lua script.
type Script struct {
	ScriptHooks
	combat.Cooldown
	name string
}

// Name implements combat.ActiveSkill.
func (s *Script) Name() string { return s.name }
