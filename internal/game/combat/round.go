package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// EndTurn closes the player phase, runs the enemy phase and starts the next
// round. Every living enemy is handed to the controller in roster order and obj
// is evaluated after each one; the phase stops as soon as the battle resolves.
// A controller error does not stop the other enemies.
//
// Precondition: Phase() == PhasePlayer.
// Postcondition: Phase() is PhasePlayer with Round() incremented, or
// PhaseResolved. Returns the joined controller errors, if any.
func (b *Battle) EndTurn(obj Objective) error {
	if err := b.requirePhase(PhasePlayer); err != nil {
		return err
	}
	if b.Evaluate(obj) != OutcomeNone {
		return nil
	}

	b.phase = PhaseEnemy
	var errs []error
	for _, e := range b.enemies {
		if !e.IsAlive() {
			continue
		}
		if err := b.act(e); err != nil {
			b.logger.Warn("enemy turn failed", zap.String("enemy", e.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
		}
		if b.Evaluate(obj) != OutcomeNone {
			return errors.Join(errs...)
		}
	}
	b.endRound()
	return errors.Join(errs...)
}

func (b *Battle) act(e *Enemy) error {
	if b.controller == nil {
		_, err := b.EnemyPass(e)
		return err
	}
	return b.controller.Act(b, e)
}

// endRound refills movement, ticks cooldowns and fires OnEndTurn for every
// living combatant. Dead combatants are left exactly as they fell.
func (b *Battle) endRound() {
	var living []Combatant
	for _, p := range b.players {
		if p.IsAlive() {
			living = append(living, p)
		}
	}
	for _, e := range b.enemies {
		if e.IsAlive() {
			living = append(living, e)
		}
	}
	for _, c := range living {
		e := c.Stated()
		e.CurrentMovementRange = e.MovementRange
		if e.Active != nil {
			e.Active.Tick()
		}
	}
	for _, c := range living {
		for _, h := range c.Stated().hooks() {
			h.OnEndTurn(b, c)
		}
	}
	b.logger.Debug("round ended", zap.Int("round", b.round))
	b.round++
	b.phase = PhasePlayer
}
