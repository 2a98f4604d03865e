package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
)

func newPlayer(name string, attack, health, move int) *combat.Character {
	return combat.NewCharacter(combat.Entity{
		Name:          name,
		MovementRange: move,
		Stats: stats.Block{
			PrimaryHealth:  stats.Flat(health),
			PhysicalAttack: stats.Flat(attack),
		},
	}, nil, nil)
}

func newEnemy(name string, attack, defense, health, move int) *combat.Enemy {
	return combat.NewEnemy(combat.Entity{
		Name:          name,
		MovementRange: move,
		Stats: stats.Block{
			PrimaryHealth:   stats.Flat(health),
			PhysicalAttack:  stats.Flat(attack),
			PhysicalDefense: stats.Flat(defense),
		},
	}, "")
}

// startBattle builds and initialises a battle on the given map rows.
func startBattle(t *testing.T, rows []string, players []*combat.Character, enemies []*combat.Enemy, ctrl combat.Controller) *combat.Battle {
	t.Helper()
	tiles, err := grid.ParseRows(rows)
	require.NoError(t, err)
	field, err := grid.NewBattlefield("test", "", tiles)
	require.NoError(t, err)
	b, err := combat.NewBattle(players, enemies, field, ctrl, nil)
	require.NoError(t, err)
	require.NoError(t, b.Initialise())
	return b
}

func kill(c combat.Combatant) {
	c.Stated().TakeDamage(1 << 20)
}

// testSkill counts activations and end-of-round calls.
type testSkill struct {
	combat.NopHooks
	combat.Cooldown
	activations int
	endTurns    int
}

func newTestSkill(cooldown int) *testSkill {
	return &testSkill{Cooldown: combat.NewCooldown(cooldown)}
}

func (s *testSkill) Name() string { return "test" }

func (s *testSkill) OnActivation(*combat.Battle, combat.Combatant) { s.activations++ }

func (s *testSkill) OnEndTurn(*combat.Battle, combat.Combatant) { s.endTurns++ }
