// Package ai provides the enemy controllers that drive the enemy phase of a
// battle.
package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// PathController hunts the nearest reachable player: it fires its active skill
// when ready, then attacks a random adjacent player, otherwise walks the
// shortest path towards any player and attacks if that brings it into reach.
type PathController struct {
	src    dice.Source
	logger *zap.Logger
}

// NewPathController returns a PathController. A nil logger disables logging.
//
// Precondition: src must not be nil.
func NewPathController(src dice.Source, logger *zap.Logger) *PathController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PathController{src: src, logger: logger}
}

// Act implements combat.Controller. Finding no path is not an error; the enemy
// passes instead unless it already used its skill.
//
// Precondition: b is in the enemy phase and e is alive.
func (c *PathController) Act(b *combat.Battle, e *combat.Enemy) error {
	used, err := useReadySkill(b, e)
	if err != nil || len(b.Players()) == 0 {
		return err
	}
	if attacked, err := attackAdjacent(b, e, c.src); attacked || err != nil {
		return err
	}
	path, ok := ShortestApproach(b, e)
	if !ok {
		c.logger.Debug("no path to any player", zap.String("enemy", e.Name), zap.Stringer("at", e.Pos))
		return passUnless(b, e, used)
	}
	steps, err := b.AdvanceEnemy(e, path)
	if err != nil {
		return err
	}
	attacked, err := attackAdjacent(b, e, c.src)
	if err != nil {
		return err
	}
	if steps == 0 && !attacked {
		return passUnless(b, e, used)
	}
	return nil
}

// ShortestApproach returns the globally shortest path from e to a free square
// next to any living player, routing around every living combatant. Ties go to
// the earlier player in roster order. An enemy already next to a player gets an
// empty path.
//
// Postcondition: ok is false when no player can be reached.
func ShortestApproach(b *combat.Battle, e *combat.Enemy) (path []grid.Coordinate, ok bool) {
	var targets []grid.Coordinate
	for _, p := range b.Players() {
		targets = append(targets, p.Pos)
	}
	return approach(b, e.Pos, targets)
}

// approach finds the shortest path from start to a free square next to any
// target. Earlier targets win ties.
func approach(b *combat.Battle, start grid.Coordinate, targets []grid.Coordinate) (path []grid.Coordinate, ok bool) {
	mask := b.Field().WalkableGrid(b.OccupiedSquares())
	for _, t := range targets {
		for _, goal := range t.Neighbors() {
			if goal == start {
				return []grid.Coordinate{}, true
			}
			candidate, found := grid.FindPath(mask, start, goal)
			if found && (!ok || len(candidate) < len(path)) {
				path, ok = candidate, true
			}
		}
	}
	return path, ok
}

// attackAdjacent strikes a uniformly random adjacent living player.
func attackAdjacent(b *combat.Battle, e *combat.Enemy, src dice.Source) (bool, error) {
	var targets []*combat.Character
	for _, p := range b.Players() {
		if e.Pos.Adjacent(p.Pos) {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		return false, nil
	}
	_, err := b.EnemyAttack(e, targets[src.Intn(len(targets))])
	return true, err
}

// useReadySkill fires e's active skill if it has one and it is off cooldown.
func useReadySkill(b *combat.Battle, e *combat.Enemy) (bool, error) {
	if e.Active == nil || !e.Active.CanActivate() {
		return false, nil
	}
	if _, err := b.EnemySkill(e); err != nil {
		return false, err
	}
	return true, nil
}

// passUnless logs a pass for e unless it already acted this turn.
func passUnless(b *combat.Battle, e *combat.Enemy, acted bool) error {
	if acted {
		return nil
	}
	_, err := b.EnemyPass(e)
	return err
}
