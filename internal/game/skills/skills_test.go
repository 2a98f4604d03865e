package skills_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
	"github.com/cory-johannsen/gridtactics/internal/game/skills"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
	"github.com/cory-johannsen/gridtactics/internal/scripting"
)

func newRegistry(t *testing.T, scripts *scripting.Manager, defs ...skills.Def) *skills.Registry {
	t.Helper()
	reg := skills.NewRegistry(dice.NewRoller(dice.NewSeededSource(3), nil), scripts, nil)
	for _, d := range defs {
		require.NoError(t, reg.Register(d))
	}
	return reg
}

func hero(name string, attack, health int) *combat.Character {
	return combat.NewCharacter(combat.Entity{
		Name:          name,
		MovementRange: 2,
		Stats:         stats.Block{PrimaryHealth: stats.Flat(health), PhysicalAttack: stats.Flat(attack)},
	}, nil, nil)
}

func foe(name string, attack, defense, health int) *combat.Enemy {
	return combat.NewEnemy(combat.Entity{
		Name:          name,
		MovementRange: 1,
		Stats: stats.Block{
			PrimaryHealth:   stats.Flat(health),
			PhysicalAttack:  stats.Flat(attack),
			PhysicalDefense: stats.Flat(defense),
		},
	}, "")
}

func start(t *testing.T, rows []string, players []*combat.Character, enemies []*combat.Enemy) *combat.Battle {
	t.Helper()
	tiles, err := grid.ParseRows(rows)
	require.NoError(t, err)
	field, err := grid.NewBattlefield("skills", "", tiles)
	require.NoError(t, err)
	b, err := combat.NewBattle(players, enemies, field, nil, nil)
	require.NoError(t, err)
	require.NoError(t, b.Initialise())
	return b
}

func TestDef_Validate(t *testing.T) {
	cases := []struct {
		name string
		def  skills.Def
		ok   bool
	}{
		{"bulwark", skills.Def{ID: "b", Kind: skills.KindBulwark, Amount: "10"}, true},
		{"dice amount", skills.Def{ID: "r", Kind: skills.KindRally, Amount: "2d6+1"}, true},
		{"passive ironhide", skills.Def{ID: "i", Kind: skills.KindIronhide, Passive: true, Amount: "3"}, true},
		{"script", skills.Def{ID: "s", Kind: skills.KindScript, Script: "x"}, true},
		{"missing id", skills.Def{Kind: skills.KindBulwark, Amount: "1"}, false},
		{"bad amount", skills.Def{ID: "b", Kind: skills.KindBulwark, Amount: "lots"}, false},
		{"passive bulwark", skills.Def{ID: "b", Kind: skills.KindBulwark, Passive: true, Amount: "1"}, false},
		{"active piercing", skills.Def{ID: "p", Kind: skills.KindPiercing, Amount: "1"}, false},
		{"script without id", skills.Def{ID: "s", Kind: skills.KindScript}, false},
		{"negative cooldown", skills.Def{ID: "b", Kind: skills.KindBulwark, Amount: "1", Cooldown: -1}, false},
		{"unknown kind", skills.Def{ID: "b", Kind: "fireball", Amount: "1"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := newRegistry(t, nil,
		skills.Def{ID: "wall", Kind: skills.KindBulwark, Amount: "5"},
		skills.Def{ID: "skin", Kind: skills.KindIronhide, Passive: true, Amount: "5"},
	)
	assert.Error(t, reg.Register(skills.Def{ID: "wall", Kind: skills.KindRally, Amount: "1"}))
	assert.Error(t, reg.Register(skills.Def{ID: "lua", Kind: skills.KindScript, Script: "missing"}))
	_, err := reg.Active("skin")
	assert.Error(t, err)
	_, err = reg.Passive("wall")
	assert.Error(t, err)
	_, err = reg.Active("nope")
	assert.Error(t, err)
}

func TestRegistry_InstancesAreIndependent(t *testing.T) {
	reg := newRegistry(t, nil, skills.Def{ID: "wall", Kind: skills.KindBulwark, Amount: "5", Cooldown: 2})
	a, err := reg.Active("wall")
	require.NoError(t, err)
	b, err := reg.Active("wall")
	require.NoError(t, err)
	a.MarkActivated()
	assert.False(t, a.CanActivate())
	assert.True(t, b.CanActivate())
}

func TestBulwark_ShieldsLivingPlayers(t *testing.T) {
	reg := newRegistry(t, nil, skills.Def{ID: "wall", Name: "Bulwark", Kind: skills.KindBulwark, Amount: "15", Cooldown: 3})
	tank, mage, fallen := hero("tank", 5, 50), hero("mage", 5, 30), hero("fallen", 5, 30)
	skill, err := reg.Active("wall")
	require.NoError(t, err)
	tank.Active = skill
	b := start(t, []string{"PPP.E"}, []*combat.Character{tank, mage, fallen}, []*combat.Enemy{foe("orc", 1, 0, 10)})
	fallen.TakeDamage(1000)

	entry, err := b.UseSkill(0)
	require.NoError(t, err)
	assert.Equal(t, "Bulwark", entry.Skill)
	assert.Equal(t, 15, tank.Stats.CurrentSecondaryHealth)
	assert.Equal(t, 15, mage.Stats.CurrentSecondaryHealth)
	assert.Equal(t, 0, fallen.Stats.CurrentSecondaryHealth)
	assert.False(t, fallen.IsAlive())
}

func TestRally_HealsUpToMax(t *testing.T) {
	reg := newRegistry(t, nil, skills.Def{ID: "rally", Kind: skills.KindRally, Amount: "10"})
	a, c := hero("a", 5, 50), hero("c", 5, 50)
	skill, err := reg.Active("rally")
	require.NoError(t, err)
	a.Active = skill
	b := start(t, []string{"PP.E"}, []*combat.Character{a, c}, []*combat.Enemy{foe("orc", 1, 0, 10)})
	a.TakeDamage(25)
	c.TakeDamage(4)

	_, err = b.UseSkill(0)
	require.NoError(t, err)
	assert.Equal(t, 35, a.Stats.CurrentPrimaryHealth)
	assert.Equal(t, 50, c.Stats.CurrentPrimaryHealth)
}

func TestBerserk_BonusOnlyInActivationRound(t *testing.T) {
	reg := newRegistry(t, nil, skills.Def{ID: "rage", Kind: skills.KindBerserk, Amount: "20", Cooldown: 1})
	brute := hero("brute", 10, 50)
	skill, err := reg.Active("rage")
	require.NoError(t, err)
	brute.Active = skill
	orc := foe("orc", 0, 5, 500)
	b := start(t, []string{"PE"}, []*combat.Character{brute}, []*combat.Enemy{orc})

	_, err = b.UseSkill(0)
	require.NoError(t, err)
	entry, err := b.Attack(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, entry.Damage)

	require.NoError(t, b.EndTurn(combat.Standard{}))
	entry, err = b.Attack(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Damage)
}

func TestPassives_IronhideAndPiercing(t *testing.T) {
	reg := newRegistry(t, nil,
		skills.Def{ID: "skin", Kind: skills.KindIronhide, Passive: true, Amount: "4"},
		skills.Def{ID: "pierce", Kind: skills.KindPiercing, Passive: true, Amount: "3"},
	)
	archer := hero("archer", 12, 50)
	pierce, err := reg.Passive("pierce")
	require.NoError(t, err)
	archer.Passive = pierce
	golem := foe("golem", 0, 5, 100)
	skin, err := reg.Passive("skin")
	require.NoError(t, err)
	golem.Passive = skin
	b := start(t, []string{"PE"}, []*combat.Character{archer}, []*combat.Enemy{golem})

	// 12 - (5+4) = 3, plus 3 true damage
	entry, err := b.Attack(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, entry.Damage)
}

func TestScript_ActiveAndPassiveHooks(t *testing.T) {
	mgr := scripting.NewManager(dice.NewRoller(dice.NewSeededSource(1), nil), 0, nil)
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.LoadString("aegis", `
		function on_activation(self)
			for _, p in ipairs(engine.players()) do
				engine.shield(p.uid, 7)
			end
		end
	`))
	require.NoError(t, mgr.LoadString("stoneskin", `
		function on_take_damage(self, other, damage)
			return math.floor(damage / 2)
		end
		function on_calculate_defense(self, attacker, running, physical)
			if physical then return 1 end
			return 0
		end
	`))
	reg := newRegistry(t, mgr,
		skills.Def{ID: "aegis", Name: "Aegis", Kind: skills.KindScript, Script: "aegis", Cooldown: 2},
		skills.Def{ID: "stoneskin", Kind: skills.KindScript, Script: "stoneskin", Passive: true},
	)
	knight := hero("knight", 21, 40)
	aegis, err := reg.Active("aegis")
	require.NoError(t, err)
	knight.Active = aegis
	troll := foe("troll", 0, 0, 100)
	stoneskin, err := reg.Passive("stoneskin")
	require.NoError(t, err)
	troll.Passive = stoneskin
	b := start(t, []string{"PE"}, []*combat.Character{knight}, []*combat.Enemy{troll})

	entry, err := b.UseSkill(0)
	require.NoError(t, err)
	assert.Equal(t, "Aegis", entry.Skill)
	assert.Equal(t, 7, knight.Stats.CurrentSecondaryHealth)
	assert.False(t, aegis.CanActivate())

	// (21 - 1) / 2
	entry, err = b.Attack(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, entry.Damage)
}

func TestUID(t *testing.T) {
	p := hero("a", 1, 1)
	p.Index = 2
	e := foe("b", 1, 1, 1)
	e.Index = 0
	assert.Equal(t, "p2", skills.UID(p))
	assert.Equal(t, "e0", skills.UID(e))
}

func TestEngine_LookupAndDamage(t *testing.T) {
	orc := foe("orc", 1, 0, 10)
	b := start(t, []string{"PE"}, []*combat.Character{hero("a", 1, 10)}, []*combat.Enemy{orc})
	eng := skills.NewEngine(b)
	assert.Equal(t, 4, eng.Damage("e0", 4))
	assert.Equal(t, 6, orc.Stats.CurrentPrimaryHealth)
	assert.Equal(t, 0, eng.Damage("e9", 4))
	assert.Equal(t, 0, eng.Shield("x", 4))
	require.Len(t, eng.Enemies(), 1)
	assert.Equal(t, "orc", eng.Enemies()[0].Name)
}
