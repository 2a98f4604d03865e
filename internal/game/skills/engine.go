package skills

import (
	"fmt"
	"strconv"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/scripting"
)

// UID returns the identifier scripts use for c: "p<index>" for players and
// "e<index>" for enemies.
func UID(c combat.Combatant) string {
	prefix := "e"
	if c.IsPlayer() {
		prefix = "p"
	}
	return prefix + strconv.Itoa(c.Stated().Index)
}

// Info snapshots c for a script.
func Info(c combat.Combatant) scripting.CombatantInfo {
	e := c.Stated()
	pos := c.Position()
	return scripting.CombatantInfo{
		UID:          UID(c),
		Name:         e.Name,
		Player:       c.IsPlayer(),
		Primary:      e.Stats.CurrentPrimaryHealth,
		Secondary:    e.Stats.CurrentSecondaryHealth,
		MaxPrimary:   e.Stats.MaxPrimaryHealth,
		MaxSecondary: e.Stats.MaxSecondaryHealth,
		X:            pos.X,
		Y:            pos.Y,
	}
}

// battleEngine exposes one battle to scripts.
type battleEngine struct {
	b *combat.Battle
}

// NewEngine binds b for script calls.
func NewEngine(b *combat.Battle) scripting.Engine {
	return battleEngine{b: b}
}

func (e battleEngine) lookup(uid string) (*combat.Entity, error) {
	if len(uid) < 2 {
		return nil, fmt.Errorf("bad uid %q", uid)
	}
	idx, err := strconv.Atoi(uid[1:])
	if err != nil {
		return nil, fmt.Errorf("bad uid %q", uid)
	}
	switch uid[0] {
	case 'p':
		c, err := e.b.Player(idx)
		if err != nil {
			return nil, err
		}
		return &c.Entity, nil
	case 'e':
		en, err := e.b.Enemy(idx)
		if err != nil {
			return nil, err
		}
		return &en.Entity, nil
	}
	return nil, fmt.Errorf("bad uid %q", uid)
}

func (e battleEngine) Shield(uid string, amount int) int {
	ent, err := e.lookup(uid)
	if err != nil {
		return 0
	}
	return ent.Shield(amount)
}

func (e battleEngine) Heal(uid string, amount int) int {
	ent, err := e.lookup(uid)
	if err != nil {
		return 0
	}
	return ent.Heal(amount)
}

func (e battleEngine) Damage(uid string, amount int) int {
	ent, err := e.lookup(uid)
	if err != nil || !ent.IsAlive() || amount <= 0 {
		return 0
	}
	ent.TakeDamage(amount)
	return amount
}

func (e battleEngine) Players() []scripting.CombatantInfo {
	var out []scripting.CombatantInfo
	for _, p := range e.b.Players() {
		out = append(out, Info(p))
	}
	return out
}

func (e battleEngine) Enemies() []scripting.CombatantInfo {
	var out []scripting.CombatantInfo
	for _, en := range e.b.Enemies() {
		out = append(out, Info(en))
	}
	return out
}
