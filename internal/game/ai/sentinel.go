package ai

import (
	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
)

// Sentinel holds its ground: it fires its active skill when ready, attacks an
// adjacent player and otherwise passes.
type Sentinel struct {
	src dice.Source
}

// NewSentinel returns a Sentinel.
func NewSentinel(src dice.Source) *Sentinel {
	return &Sentinel{src: src}
}

// Act implements combat.Controller.
func (s *Sentinel) Act(b *combat.Battle, e *combat.Enemy) error {
	used, err := useReadySkill(b, e)
	if err != nil || len(b.Players()) == 0 {
		return err
	}
	attacked, err := attackAdjacent(b, e, s.src)
	if attacked || err != nil {
		return err
	}
	return passUnless(b, e, used)
}
