package combat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	combatmock "github.com/cory-johannsen/gridtactics/internal/game/combat/mock"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

func TestEndTurn_RestoresLivingRangeOnly(t *testing.T) {
	alive, dead := newPlayer("alive", 5, 10, 3), newPlayer("dead", 5, 10, 3)
	deadSkill := newTestSkill(2)
	dead.Active = deadSkill
	b := startBattle(t, []string{"P.P...E"}, []*combat.Character{alive, dead},
		[]*combat.Enemy{newEnemy("orc", 1, 0, 10, 1)}, nil)

	_, err := b.MoveTo(0, grid.Coordinate{X: 1, Y: 0})
	require.NoError(t, err)
	_, err = b.UseSkill(1)
	require.NoError(t, err)
	_, err = b.MoveTo(1, grid.Coordinate{X: 4, Y: 0})
	require.NoError(t, err)
	kill(dead)

	require.NoError(t, b.EndTurn(combat.Standard{}))
	assert.Equal(t, 2, b.Round())
	assert.Equal(t, combat.PhasePlayer, b.Phase())
	assert.Equal(t, 3, alive.CurrentMovementRange)
	assert.Equal(t, 1, dead.CurrentMovementRange)
	assert.Equal(t, 2, deadSkill.Remaining(), "dead combatant's cooldown must not tick")
	assert.Equal(t, 0, deadSkill.endTurns)
}

func TestEndTurn_NilControllerPasses(t *testing.T) {
	b := startBattle(t, []string{"P..E"}, []*combat.Character{newPlayer("hero", 5, 10, 1)},
		[]*combat.Enemy{newEnemy("orc", 1, 0, 10, 1)}, nil)
	require.NoError(t, b.EndTurn(combat.Standard{}))
	tail := b.LogTail(1)
	require.Len(t, tail, 1)
	assert.Equal(t, combat.KindPassed, tail[0].Kind)
	assert.Equal(t, 1, tail[0].Round)
}

func TestEndTurn_FiresOnEndTurnForLivingOwners(t *testing.T) {
	hero := newPlayer("hero", 5, 10, 1)
	skill := newTestSkill(0)
	hero.Active = skill
	b := startBattle(t, []string{"P..E"}, []*combat.Character{hero},
		[]*combat.Enemy{newEnemy("orc", 1, 0, 10, 1)}, nil)
	require.NoError(t, b.EndTurn(combat.Standard{}))
	require.NoError(t, b.EndTurn(combat.Standard{}))
	assert.Equal(t, 2, skill.endTurns)
}

func TestPropertyEndTurn_CooldownNeedsNRounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(rt, "cooldown")
		hero := newPlayer("hero", 5, 10, 1)
		skill := newTestSkill(n)
		hero.Active = skill
		tiles, err := grid.ParseRows([]string{"P..E"})
		if err != nil {
			rt.Fatal(err)
		}
		field, err := grid.NewBattlefield("line", "", tiles)
		if err != nil {
			rt.Fatal(err)
		}
		b, err := combat.NewBattle([]*combat.Character{hero}, []*combat.Enemy{newEnemy("orc", 0, 0, 10, 0)}, field, nil, nil)
		if err != nil {
			rt.Fatal(err)
		}
		if err := b.Initialise(); err != nil {
			rt.Fatal(err)
		}
		if _, err := b.UseSkill(0); err != nil {
			rt.Fatal(err)
		}
		for i := 0; i < n; i++ {
			if _, err := b.UseSkill(0); !errors.Is(err, combat.ErrSkillOnCooldown) {
				rt.Fatalf("after %d end turns: UseSkill error = %v, want ErrSkillOnCooldown", i, err)
			}
			if err := b.EndTurn(combat.Standard{}); err != nil {
				rt.Fatal(err)
			}
		}
		if _, err := b.UseSkill(0); err != nil {
			rt.Fatalf("after %d end turns: UseSkill error = %v, want nil", n, err)
		}
	})
}

func TestEndTurn_ControllerCalledInRosterOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCtrl := combatmock.NewMockController(ctrl)

	first, dead, last := newEnemy("first", 1, 0, 10, 1), newEnemy("dead", 1, 0, 10, 1), newEnemy("last", 1, 0, 10, 1)
	b := startBattle(t, []string{"P.EEE"}, []*combat.Character{newPlayer("hero", 5, 10, 1)},
		[]*combat.Enemy{first, dead, last}, mockCtrl)
	kill(dead)

	gomock.InOrder(
		mockCtrl.EXPECT().Act(b, first).Return(nil),
		mockCtrl.EXPECT().Act(b, last).Return(nil),
	)
	require.NoError(t, b.EndTurn(combat.Standard{}))
	assert.Equal(t, 2, b.Round())
}

func TestEndTurn_ControllerErrorsJoined(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCtrl := combatmock.NewMockController(ctrl)
	a, c := newEnemy("a", 1, 0, 10, 1), newEnemy("c", 1, 0, 10, 1)
	b := startBattle(t, []string{"P.EE"}, []*combat.Character{newPlayer("hero", 5, 10, 1)},
		[]*combat.Enemy{a, c}, mockCtrl)

	boom := errors.New("boom")
	mockCtrl.EXPECT().Act(b, a).Return(boom)
	mockCtrl.EXPECT().Act(b, c).Return(nil)

	err := b.EndTurn(combat.Standard{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, combat.PhasePlayer, b.Phase(), "round still completes")
	assert.Equal(t, 2, b.Round())
}

func TestEndTurn_StopsOnDefeat(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCtrl := combatmock.NewMockController(ctrl)
	hero := newPlayer("hero", 5, 1, 1)
	brute, idle := newEnemy("brute", 50, 0, 10, 1), newEnemy("idle", 1, 0, 10, 1)
	b := startBattle(t, []string{"PE.E"}, []*combat.Character{hero}, []*combat.Enemy{brute, idle}, mockCtrl)

	mockCtrl.EXPECT().Act(b, brute).DoAndReturn(func(b *combat.Battle, e *combat.Enemy) error {
		_, err := b.EnemyAttack(e, hero)
		return err
	})

	require.NoError(t, b.EndTurn(combat.Standard{}))
	assert.Equal(t, combat.PhaseResolved, b.Phase())
	assert.Equal(t, combat.OutcomeDefeat, b.Outcome())
	assert.Equal(t, combat.KindKilled, b.LogTail(1)[0].Kind)
}

func TestAdvanceEnemy_StopsAtRangeAndBlocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCtrl := combatmock.NewMockController(ctrl)
	hero := newPlayer("hero", 5, 10, 1)
	runner := newEnemy("runner", 1, 0, 10, 2)
	b := startBattle(t, []string{"P....E"}, []*combat.Character{hero}, []*combat.Enemy{runner}, mockCtrl)

	mockCtrl.EXPECT().Act(b, runner).DoAndReturn(func(b *combat.Battle, e *combat.Enemy) error {
		path := []grid.Coordinate{{X: 4, Y: 0}, {X: 3, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}}
		steps, err := b.AdvanceEnemy(e, path)
		assert.Equal(t, 2, steps)
		return err
	})
	require.NoError(t, b.EndTurn(combat.Standard{}))
	assert.Equal(t, grid.Coordinate{X: 3, Y: 0}, runner.Pos)
	assert.Equal(t, 2, runner.CurrentMovementRange, "range restored at end of round")
}

func TestEnemySkill_FiresDuringEnemyPhase(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCtrl := combatmock.NewMockController(ctrl)
	caster, plain := newEnemy("caster", 1, 0, 10, 1), newEnemy("plain", 1, 0, 10, 1)
	skill := newTestSkill(2)
	caster.Active = skill
	b := startBattle(t, []string{"P.EE"}, []*combat.Character{newPlayer("hero", 5, 10, 1)},
		[]*combat.Enemy{caster, plain}, mockCtrl)

	mockCtrl.EXPECT().Act(b, caster).DoAndReturn(func(b *combat.Battle, e *combat.Enemy) error {
		entry, err := b.EnemySkill(e)
		require.NoError(t, err)
		assert.Equal(t, "caster", entry.Actor)
		assert.Equal(t, combat.KindUsedSkill, entry.Kind)
		assert.Equal(t, "test", entry.Skill)
		_, err = b.EnemySkill(e)
		assert.ErrorIs(t, err, combat.ErrSkillOnCooldown)
		return nil
	})
	mockCtrl.EXPECT().Act(b, plain).DoAndReturn(func(b *combat.Battle, e *combat.Enemy) error {
		_, err := b.EnemySkill(e)
		assert.ErrorIs(t, err, combat.ErrNoSkill)
		_, err = b.EnemySkill(caster)
		assert.ErrorIs(t, err, combat.ErrSkillOnCooldown)
		return nil
	})

	require.NoError(t, b.EndTurn(combat.Standard{}))
	assert.Equal(t, 1, skill.activations)
	assert.Equal(t, 1, skill.Remaining())
}
