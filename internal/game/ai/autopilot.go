package ai

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// Autopilot plays the player side for unattended simulations. Each living
// character fires its skill when ready, then attacks an adjacent enemy or walks
// towards the nearest one and attacks if it arrives. Every step goes through
// Battle.Apply, exactly as a human's commands would.
type Autopilot struct {
	src    dice.Source
	logger *zap.Logger
}

// NewAutopilot returns an Autopilot. A nil logger disables logging.
//
// Precondition: src must not be nil.
func NewAutopilot(src dice.Source, logger *zap.Logger) *Autopilot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autopilot{src: src, logger: logger}
}

// PlayTurn acts for every living character and then ends the turn.
//
// Precondition: b is in the player phase.
// Postcondition: Returns with b resolved or back in the player phase of the next
// round; returns the first action the engine rejected.
func (a *Autopilot) PlayTurn(b *combat.Battle, obj combat.Objective) error {
	if b.Phase() != combat.PhasePlayer {
		return fmt.Errorf("autopilot: %w (phase %s)", combat.ErrWrongPhase, b.Phase())
	}
	for _, p := range b.Players() {
		if err := a.actFor(b, obj, p); err != nil {
			return err
		}
		if b.Phase() == combat.PhaseResolved {
			return nil
		}
	}
	_, err := b.Apply(combat.EndTurnAction{}, obj)
	return err
}

func (a *Autopilot) actFor(b *combat.Battle, obj combat.Objective, p *combat.Character) error {
	if p.Active != nil && p.Active.CanActivate() {
		if _, err := b.Apply(combat.SkillAction{Player: p.Index}, obj); err != nil {
			return err
		}
		if b.Phase() == combat.PhaseResolved {
			return nil
		}
	}
	if attacked, err := a.attackAdjacent(b, obj, p); attacked || err != nil {
		return err
	}

	var targets []grid.Coordinate
	for _, e := range b.Enemies() {
		targets = append(targets, e.Pos)
	}
	path, ok := approach(b, p.Pos, targets)
	if !ok {
		a.logger.Debug("no path to any enemy", zap.String("player", p.Name), zap.Stringer("at", p.Pos))
		return nil
	}
	for _, step := range path {
		if p.CurrentMovementRange == 0 {
			break
		}
		dir, ok := directionTo(p.Pos, step)
		if !ok {
			break
		}
		if _, err := b.Apply(combat.MoveAction{Player: p.Index, Dir: dir}, obj); err != nil {
			var moveErr *combat.MoveError
			if errors.As(err, &moveErr) {
				break
			}
			return err
		}
	}
	_, err := a.attackAdjacent(b, obj, p)
	return err
}

func (a *Autopilot) attackAdjacent(b *combat.Battle, obj combat.Objective, p *combat.Character) (bool, error) {
	var targets []*combat.Enemy
	for _, e := range b.Enemies() {
		if p.Pos.Adjacent(e.Pos) {
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		return false, nil
	}
	target := targets[a.src.Intn(len(targets))]
	_, err := b.Apply(combat.AttackAction{Player: p.Index, Enemy: target.Index}, obj)
	return true, err
}

// directionTo returns the cardinal direction that steps from one square onto
// an adjacent one.
func directionTo(from, to grid.Coordinate) (grid.Direction, bool) {
	for _, d := range grid.Cardinals {
		if from.Add(d) == to {
			return d, true
		}
	}
	return "", false
}
