package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gridtactics/internal/content"
	"github.com/cory-johannsen/gridtactics/internal/game/ai"
	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/game/skills"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
	"github.com/cory-johannsen/gridtactics/internal/scripting"
)

func loadLibrary(t *testing.T, dirs content.Dirs) (*content.Library, error) {
	t.Helper()
	roller := dice.NewRoller(dice.NewSeededSource(11), nil)
	scripts := scripting.NewManager(roller, 0, nil)
	t.Cleanup(scripts.Close)
	return content.Load(content.Options{
		Dirs:                 dirs,
		Skills:               skills.NewRegistry(roller, scripts, nil),
		Scripts:              scripts,
		Behaviors:            []string{ai.BehaviorHunter, ai.BehaviorSentinel},
		DefaultMovementRange: 3,
	})
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const minimalField = `id: pit
rows:
  - "PE"
`

const minimalEnemy = `id: rat
name: Rat
stats:
  primary_health: 5
  physical_attack: 2
`

func TestLoad_BundledContent(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	assert.Equal(t, []string{"crossroads", "throne_room"}, lib.BattlefieldIDs())
	assert.Equal(t, []string{"goblin", "skeleton", "warlord"}, lib.EnemyIDs())
	assert.Equal(t, []string{"cleric", "knight", "ranger"}, lib.CharacterIDs())
	assert.Equal(t, []string{"amulet", "longsword", "oak_staff"}, lib.EquipmentIDs())
}

func TestLibrary_CharacterAppliesEquipment(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	c, err := lib.Character(content.Loadout{Character: "knight", Weapon: "longsword", Artefact: "amulet"})
	require.NoError(t, err)
	assert.Equal(t, "Knight", c.Name)
	assert.Equal(t, 3, c.MovementRange)
	assert.Equal(t, 102, c.Stats.MaxPrimaryHealth)
	assert.Equal(t, 35, c.Stats.MaxSecondaryHealth)
	assert.Equal(t, 22, c.CalculateStat(stats.PhysicalAttack))
	assert.Equal(t, 10, c.CalculateStat(stats.PhysicalDefense))
	assert.True(t, c.IsPhysical())
	require.NotNil(t, c.Active)
	assert.Equal(t, "Bulwark", c.Active.Name())
	assert.NotNil(t, c.Passive)

	_, err = lib.Character(content.Loadout{Character: "knight", Weapon: "amulet"})
	assert.ErrorContains(t, err, "not a weapon")
	_, err = lib.Character(content.Loadout{Character: "nobody"})
	assert.Error(t, err)
	_, err = lib.Character(content.Loadout{Character: "cleric", Artefact: "missing"})
	assert.Error(t, err)
}

func TestLibrary_CharactersGetIndependentSkills(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	a, err := lib.Character(content.Loadout{Character: "cleric"})
	require.NoError(t, err)
	b, err := lib.Character(content.Loadout{Character: "cleric"})
	require.NoError(t, err)
	a.Active.MarkActivated()
	assert.False(t, a.Active.CanActivate())
	assert.True(t, b.Active.CanActivate())
}

func TestLibrary_EnemyCarriesBehaviorAndSkills(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	e, err := lib.Enemy("warlord")
	require.NoError(t, err)
	assert.Equal(t, "Warlord", e.Name)
	assert.Equal(t, ai.BehaviorHunter, e.Behavior)
	assert.Equal(t, "Commands the throne room.", e.Description)
	require.NotNil(t, e.Active)
	assert.Equal(t, "War Cry", e.Active.Name())

	s, err := lib.Enemy("skeleton")
	require.NoError(t, err)
	assert.Equal(t, ai.BehaviorSentinel, s.Behavior)
	assert.Nil(t, s.Active)
	assert.NotNil(t, s.Passive)

	_, err = lib.Enemy("dragon")
	assert.Error(t, err)
}

func TestLibrary_BattlefieldObjectives(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	field, obj, err := lib.Battlefield("crossroads")
	require.NoError(t, err)
	assert.Equal(t, "Crossroads", field.Name())
	assert.Equal(t, 2, field.EnemyCount())
	assert.IsType(t, combat.Standard{}, obj)

	field, obj, err = lib.Battlefield("throne_room")
	require.NoError(t, err)
	assert.Equal(t, 3, field.EnemyCount())
	assert.Equal(t, combat.KillBoss{BossIndex: 0}, obj)

	_, _, err = lib.Battlefield("nowhere")
	assert.Error(t, err)
}

func TestLibrary_EncounterPlacesBoss(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	for seed := uint64(0); seed < 20; seed++ {
		enc, err := lib.Encounter("throne_room", dice.NewSeededSource(seed))
		require.NoError(t, err)
		require.Len(t, enc.Enemies, 3)
		assert.Equal(t, "Warlord", enc.Enemies[0].Name)
		for _, e := range enc.Enemies[1:] {
			assert.Contains(t, []string{"Goblin", "Skeleton"}, e.Name)
		}
	}
}

func TestLibrary_RandomEncounterIsPlayable(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	enc, err := lib.RandomEncounter(dice.NewSeededSource(5))
	require.NoError(t, err)
	assert.Contains(t, lib.BattlefieldIDs(), enc.BattlefieldID)
	assert.Len(t, enc.Enemies, enc.Field.EnemyCount())

	player, err := lib.Character(content.Loadout{Character: "ranger", Weapon: "longsword"})
	require.NoError(t, err)
	b, err := combat.NewBattle([]*combat.Character{player}, enc.Enemies, enc.Field, nil, nil)
	require.NoError(t, err)
	require.NoError(t, b.Initialise())
	assert.Equal(t, combat.PhasePlayer, b.Phase())
}

func TestLoad_DefaultMovementRange(t *testing.T) {
	root := t.TempDir()
	dirs := content.DirsUnder(root)
	writeFile(t, dirs.Battlefields, "pit.yaml", minimalField)
	writeFile(t, dirs.Enemies, "rat.yaml", minimalEnemy)

	lib, err := loadLibrary(t, dirs)
	require.NoError(t, err)
	e, err := lib.Enemy("rat")
	require.NoError(t, err)
	assert.Equal(t, 3, e.MovementRange)
	assert.Equal(t, 3, e.CurrentMovementRange)
}

func TestLoad_MissingDirsAreEmpty(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, lib.BattlefieldIDs())
	_, err = lib.RandomEncounter(dice.NewSeededSource(1))
	assert.Error(t, err)
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]map[string]string
		want  string
	}{
		{
			name:  "unknown field",
			files: map[string]map[string]string{"enemies": {"rat.yaml": minimalEnemy + "speed: 9\n"}},
			want:  "speed",
		},
		{
			name:  "bad tile",
			files: map[string]map[string]string{"battlefields": {"pit.yaml": "id: pit\nrows: [\"PX\"]\n"}},
			want:  "unknown tile",
		},
		{
			name:  "no player start",
			files: map[string]map[string]string{"battlefields": {"pit.yaml": "id: pit\nrows: [\".E\"]\n"}},
			want:  "player start",
		},
		{
			name: "boss slot out of range",
			files: map[string]map[string]string{"battlefields": {
				"pit.yaml": minimalField + "objective:\n  kind: kill_boss\n  boss: 1\n",
			}},
			want: "boss slot",
		},
		{
			name: "unknown pool enemy",
			files: map[string]map[string]string{"battlefields": {
				"pit.yaml": minimalField + "enemy_pool: [ghost]\n",
			}},
			want: "ghost",
		},
		{
			name:  "unknown behavior",
			files: map[string]map[string]string{"enemies": {"rat.yaml": minimalEnemy + "behavior: coward\n"}},
			want:  "coward",
		},
		{
			name:  "unknown skill",
			files: map[string]map[string]string{"enemies": {"rat.yaml": minimalEnemy + "active_skill: fireball\n"}},
			want:  "fireball",
		},
		{
			name: "passive used as active",
			files: map[string]map[string]string{
				"skills":  {"hide.yaml": "id: hide\nkind: ironhide\npassive: true\namount: \"2\"\n"},
				"enemies": {"rat.yaml": minimalEnemy + "active_skill: hide\n"},
			},
			want: "not a registered active skill",
		},
		{
			name: "duplicate id",
			files: map[string]map[string]string{"enemies": {
				"a.yaml": minimalEnemy,
				"b.yaml": minimalEnemy,
			}},
			want: "defined twice",
		},
		{
			name:  "equipment with tier",
			files: map[string]map[string]string{"equipment": {"ring.yaml": "id: ring\nslot: artefact\nstats:\n  tier: 2\n"}},
			want:  "no tier",
		},
		{
			name:  "script skill without script file",
			files: map[string]map[string]string{"skills": {"zap.yaml": "id: zap\nkind: script\nscript: zap\n"}},
			want:  "zap",
		},
		{
			name:  "broken script",
			files: map[string]map[string]string{"scripts": {"oops.lua": "function (\n"}},
			want:  "oops",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			for sub, files := range tc.files {
				for name, body := range files {
					writeFile(t, filepath.Join(root, sub), name, body)
				}
			}
			_, err := loadLibrary(t, content.DirsUnder(root))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseLoadout(t *testing.T) {
	l, err := content.ParseLoadout("knight:longsword:amulet")
	require.NoError(t, err)
	assert.Equal(t, content.Loadout{Character: "knight", Weapon: "longsword", Artefact: "amulet"}, l)
	assert.Equal(t, "knight:longsword:amulet", l.String())

	l, err = content.ParseLoadout("cleric")
	require.NoError(t, err)
	assert.Equal(t, "cleric", l.String())

	l, err = content.ParseLoadout("cleric::amulet")
	require.NoError(t, err)
	assert.Equal(t, content.Loadout{Character: "cleric", Artefact: "amulet"}, l)

	for _, bad := range []string{"", ":sword", "a:b:c:d"} {
		_, err := content.ParseLoadout(bad)
		assert.Error(t, err, bad)
	}
}

func TestLibrary_WarlordUsesWarCry(t *testing.T) {
	lib, err := loadLibrary(t, content.DirsUnder(filepath.Join("..", "..", "content")))
	require.NoError(t, err)

	enc, err := lib.Encounter("throne_room", dice.NewSeededSource(4))
	require.NoError(t, err)
	player, err := lib.Character(content.Loadout{Character: "knight", Weapon: "longsword"})
	require.NoError(t, err)
	b, err := combat.NewBattle([]*combat.Character{player}, enc.Enemies, enc.Field,
		ai.NewRegistry(dice.NewSeededSource(4), nil), nil)
	require.NoError(t, err)
	require.NoError(t, b.Initialise())

	before := player.Stats.CurrentPrimaryHealth + player.Stats.CurrentSecondaryHealth
	require.NoError(t, b.EndTurn(enc.Objective))

	var cries int
	for _, e := range b.Log() {
		if e.Kind == combat.KindUsedSkill && e.Actor == "Warlord" {
			assert.Equal(t, "War Cry", e.Skill)
			cries++
		}
	}
	assert.Equal(t, 1, cries)
	assert.Less(t, player.Stats.CurrentPrimaryHealth+player.Stats.CurrentSecondaryHealth, before)
	assert.False(t, enc.Enemies[0].Active.CanActivate())
}
