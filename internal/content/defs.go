// Package content loads battle content (battlefields, enemies, characters,
// equipment, skills and skill scripts) from YAML and Lua files and turns it
// into ready-to-fight combat values.
package content

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
)

// Objective kinds accepted in battlefield content.
const (
	ObjectiveStandard = "standard"
	ObjectiveKillBoss = "kill_boss"
)

// ObjectiveDef selects how a battlefield is won.
type ObjectiveDef struct {
	Kind string `yaml:"kind"`
	// Boss is the enemy roster slot for kill_boss.
	Boss int `yaml:"boss"`
	// BossEnemy, when set, fills the Boss slot with this enemy ID.
	BossEnemy string `yaml:"boss_enemy"`
}

// Build returns the combat objective.
func (o ObjectiveDef) Build() combat.Objective {
	if o.Kind == ObjectiveKillBoss {
		return combat.KillBoss{BossIndex: o.Boss}
	}
	return combat.Standard{}
}

// BattlefieldDef is a map in row notation: '#' wall, '.' floor, 'P' player
// start, 'E' enemy start.
type BattlefieldDef struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Rows        []string     `yaml:"rows"`
	EnemyPool   []string     `yaml:"enemy_pool"`
	Objective   ObjectiveDef `yaml:"objective"`
}

// Build parses the rows into a battlefield template.
func (d *BattlefieldDef) Build() (*grid.Battlefield, error) {
	tiles, err := grid.ParseRows(d.Rows)
	if err != nil {
		return nil, fmt.Errorf("battlefield %q: %w", d.ID, err)
	}
	name := d.Name
	if name == "" {
		name = d.ID
	}
	return grid.NewBattlefield(name, d.Description, tiles)
}

// Validate checks the definition on its own.
func (d *BattlefieldDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("battlefield: id must not be empty")
	}
	field, err := d.Build()
	if err != nil {
		return err
	}
	if field.EnemyCount() == 0 {
		return fmt.Errorf("battlefield %q: needs at least one enemy start", d.ID)
	}
	if len(field.StartTiles(grid.PlayerStart)) == 0 {
		return fmt.Errorf("battlefield %q: needs at least one player start", d.ID)
	}
	switch d.Objective.Kind {
	case "", ObjectiveStandard:
	case ObjectiveKillBoss:
		if d.Objective.Boss < 0 || d.Objective.Boss >= field.EnemyCount() {
			return fmt.Errorf("battlefield %q: boss slot %d outside 0-%d", d.ID, d.Objective.Boss, field.EnemyCount()-1)
		}
	default:
		return fmt.Errorf("battlefield %q: unknown objective %q", d.ID, d.Objective.Kind)
	}
	return nil
}

// EnemyDef is an enemy archetype.
type EnemyDef struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description"`
	Stats         stats.Block `yaml:"stats"`
	MovementRange int         `yaml:"movement_range"`
	Behavior      string      `yaml:"behavior"`
	Active        string      `yaml:"active_skill"`
	Passive       string      `yaml:"passive_skill"`
}

// Validate checks the definition on its own.
func (d *EnemyDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("enemy: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("enemy %q: name must not be empty", d.ID)
	}
	if d.MovementRange < 0 {
		return fmt.Errorf("enemy %q: movement_range must be >= 0", d.ID)
	}
	if err := d.Stats.Validate(); err != nil {
		return fmt.Errorf("enemy %q: %w", d.ID, err)
	}
	return nil
}

// CharacterDef is a playable character.
type CharacterDef struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Stats         stats.Block `yaml:"stats"`
	MovementRange int         `yaml:"movement_range"`
	Active        string      `yaml:"active_skill"`
	Passive       string      `yaml:"passive_skill"`
}

// Validate checks the definition on its own.
func (d *CharacterDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("character: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("character %q: name must not be empty", d.ID)
	}
	if d.MovementRange < 0 {
		return fmt.Errorf("character %q: movement_range must be >= 0", d.ID)
	}
	if err := d.Stats.Validate(); err != nil {
		return fmt.Errorf("character %q: %w", d.ID, err)
	}
	return nil
}

// Slot is where a piece of equipment is worn.
type Slot string

const (
	SlotWeapon   Slot = "weapon"
	SlotArtefact Slot = "artefact"
)

// EquipmentDef is a weapon or artefact. Its stats only modify the wearer.
type EquipmentDef struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name"`
	Slot  Slot        `yaml:"slot"`
	Stats stats.Block `yaml:"stats"`
}

// Validate checks the definition on its own.
func (d *EquipmentDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("equipment: id must not be empty")
	}
	if d.Slot != SlotWeapon && d.Slot != SlotArtefact {
		return fmt.Errorf("equipment %q: slot must be %q or %q", d.ID, SlotWeapon, SlotArtefact)
	}
	if d.Stats.Tier != 0 {
		return fmt.Errorf("equipment %q: equipment has no tier", d.ID)
	}
	return nil
}

// Loadout names a character and the equipment it fights with. Weapon and
// Artefact may be empty.
type Loadout struct {
	Character string `yaml:"character"`
	Weapon    string `yaml:"weapon"`
	Artefact  string `yaml:"artefact"`
}

// ParseLoadout parses "character[:weapon[:artefact]]".
func ParseLoadout(s string) (Loadout, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 || parts[0] == "" {
		return Loadout{}, fmt.Errorf("loadout %q: want character[:weapon[:artefact]]", s)
	}
	l := Loadout{Character: parts[0]}
	if len(parts) > 1 {
		l.Weapon = parts[1]
	}
	if len(parts) > 2 {
		l.Artefact = parts[2]
	}
	return l, nil
}

// String renders the loadout in ParseLoadout form.
func (l Loadout) String() string {
	return strings.TrimRight(l.Character+":"+l.Weapon+":"+l.Artefact, ":")
}
