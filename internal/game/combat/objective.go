package combat

import (
	"fmt"
	"strings"
)

// Objective decides when a battle is won or lost. Objectives are stateless and
// are evaluated by the caller (see Battle.Evaluate).
type Objective interface {
	IsVictory(b *Battle) bool
	IsDefeat(b *Battle) bool
	// Condition describes the win (victory true) or loss condition for display.
	Condition(b *Battle, victory bool) string
}

// Standard is elimination both ways: victory when no enemy is left standing,
// defeat when no player is.
type Standard struct{}

// IsVictory reports whether every enemy is dead.
func (Standard) IsVictory(b *Battle) bool { return len(b.Enemies()) == 0 }

// IsDefeat reports whether every player is dead.
func (Standard) IsDefeat(b *Battle) bool { return len(b.Players()) == 0 }

// Condition implements Objective.
func (Standard) Condition(_ *Battle, victory bool) string {
	if victory {
		return "Defeat all enemies"
	}
	return "All of your characters are defeated"
}

// KillBoss is won as soon as the enemy at BossIndex is dead, whatever happens
// to the rest of the enemy roster. BossIndex is the original roster index.
type KillBoss struct {
	BossIndex int
}

// IsVictory reports whether the boss is dead. An index outside the roster never wins.
func (k KillBoss) IsVictory(b *Battle) bool {
	boss, err := b.Enemy(k.BossIndex)
	if err != nil {
		return false
	}
	return !boss.IsAlive()
}

// IsDefeat matches Standard.
func (KillBoss) IsDefeat(b *Battle) bool { return Standard{}.IsDefeat(b) }

// Condition implements Objective, substituting {enemy} with the boss's name.
func (k KillBoss) Condition(b *Battle, victory bool) string {
	if !victory {
		return Standard{}.Condition(b, false)
	}
	name := fmt.Sprintf("enemy %d", k.BossIndex)
	if boss, err := b.Enemy(k.BossIndex); err == nil {
		name = boss.Name
	}
	return strings.NewReplacer("{enemy}", name).Replace("Defeat {enemy}")
}
