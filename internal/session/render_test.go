package session

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
)

func itoa(n int) string { return strconv.Itoa(n) }

func renderBattle(t *testing.T) *combat.Battle {
	t.Helper()
	tiles, err := grid.ParseRows([]string{"P.#", "..E"})
	require.NoError(t, err)
	field, err := grid.NewBattlefield("Yard", "", tiles)
	require.NoError(t, err)
	hero := combat.NewCharacter(combat.Entity{
		Name: "hero", MovementRange: 2,
		Stats: stats.Block{PrimaryHealth: stats.Flat(20), SecondaryHealth: stats.Flat(5), PhysicalAttack: stats.Flat(3)},
	}, nil, nil)
	rat := combat.NewEnemy(combat.Entity{
		Name: "rat", MovementRange: 1,
		Stats: stats.Block{PrimaryHealth: stats.Flat(4)},
	}, "")
	b, err := combat.NewBattle([]*combat.Character{hero}, []*combat.Enemy{rat}, field, nil, nil)
	require.NoError(t, err)
	require.NoError(t, b.Initialise())
	return b
}

func TestRenderer_Board(t *testing.T) {
	b := renderBattle(t)
	want := strings.Join([]string{
		"    0 1 2",
		" 0  1 . #",
		" 1  . . a",
		"",
	}, "\n")
	assert.Equal(t, want, Renderer{}.Board(b))
}

func TestRenderer_ColorCanBeStripped(t *testing.T) {
	b := renderBattle(t)
	colored := Renderer{Color: true}.Status(b, combat.Standard{})
	assert.Contains(t, colored, BrightGreen)
	assert.Equal(t, Renderer{}.Status(b, combat.Standard{}), StripANSI(colored))
}

func TestRenderer_StatusAndRoster(t *testing.T) {
	b := renderBattle(t)
	out := Renderer{}.Status(b, combat.Standard{})
	assert.Contains(t, out, "Yard - round 1, player phase")
	assert.Contains(t, out, "HP 20/20  SH 5  move 2/2")
	assert.Contains(t, out, "Goal: Defeat all enemies")
	assert.NotContains(t, out, "VICTORY")

	_, err := b.MoveTo(0, grid.Coordinate{X: 1, Y: 1})
	require.NoError(t, err)
	for b.Phase() != combat.PhaseResolved {
		_, err := b.Apply(combat.AttackAction{Player: 0, Enemy: 0}, combat.Standard{})
		require.NoError(t, err)
	}
	out = Renderer{}.Status(b, combat.Standard{})
	assert.Contains(t, out, "rat          down")
	assert.Contains(t, out, "VICTORY: Defeat all enemies")
	assert.Contains(t, Renderer{}.Board(b), " 1  . 1 .")
}

func TestRenderer_Log(t *testing.T) {
	out := Renderer{}.Log([]combat.LogEntry{
		{Round: 2, Actor: "hero", Kind: combat.KindAttacked, Target: "rat", Damage: 3},
		{Round: 2, Actor: "rat", Kind: combat.KindPassed},
	})
	assert.Equal(t, "[2] hero attacked rat for 3\n[2] rat passed\n", out)
}

func TestMarkers(t *testing.T) {
	assert.Equal(t, "1", PlayerMarker(0))
	assert.Equal(t, "@", PlayerMarker(9))
	assert.Equal(t, "a", EnemyMarker(0))
	assert.Equal(t, "z", EnemyMarker(25))
	assert.Equal(t, "&", EnemyMarker(26))
}
