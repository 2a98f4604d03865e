package content

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/game/grid"
	"github.com/cory-johannsen/gridtactics/internal/game/skills"
	"github.com/cory-johannsen/gridtactics/internal/game/stats"
	"github.com/cory-johannsen/gridtactics/internal/scripting"
)

// Dirs locates each kind of content. Empty entries are skipped.
type Dirs struct {
	Battlefields string
	Enemies      string
	Characters   string
	Equipment    string
	Skills       string
	Scripts      string
}

// DirsUnder returns the conventional layout below root.
func DirsUnder(root string) Dirs {
	return Dirs{
		Battlefields: filepath.Join(root, "battlefields"),
		Enemies:      filepath.Join(root, "enemies"),
		Characters:   filepath.Join(root, "characters"),
		Equipment:    filepath.Join(root, "equipment"),
		Skills:       filepath.Join(root, "skills"),
		Scripts:      filepath.Join(root, "scripts"),
	}
}

// Options configures Load.
type Options struct {
	Dirs Dirs
	// Skills receives every loaded skill definition.
	Skills *skills.Registry
	// Scripts receives every *.lua file in Dirs.Scripts; nil skips scripts.
	Scripts *scripting.Manager
	// Behaviors lists the accepted enemy behaviours; empty accepts any.
	Behaviors []string
	// DefaultMovementRange applies to definitions that leave movement_range at 0.
	DefaultMovementRange int
	Logger               *zap.Logger
}

// Library is the loaded, cross-checked content set. It is read-only after
// Load and safe for concurrent use.
type Library struct {
	battlefields map[string]*BattlefieldDef
	enemies      map[string]*EnemyDef
	characters   map[string]*CharacterDef
	equipment    map[string]*EquipmentDef
	skills       *skills.Registry
	defaultMove  int
}

// Load reads all content, registers skills and scripts and cross-checks
// every reference.
//
// Precondition: opts.Skills must not be nil.
// Postcondition: Returns a consistent Library or the first error found.
func Load(opts Options) (*Library, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Scripts != nil && dirExists(opts.Dirs.Scripts) {
		ids, err := opts.Scripts.LoadDir(opts.Dirs.Scripts)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded skill scripts", zap.Strings("scripts", ids))
	}

	skillDefs, err := LoadSkills(opts.Dirs.Skills)
	if err != nil {
		return nil, err
	}
	for _, d := range skillDefs {
		if err := opts.Skills.Register(*d); err != nil {
			return nil, err
		}
	}

	lib := &Library{skills: opts.Skills, defaultMove: opts.DefaultMovementRange}
	fields, err := LoadBattlefields(opts.Dirs.Battlefields)
	if err != nil {
		return nil, err
	}
	if lib.battlefields, err = index(fields, func(d *BattlefieldDef) string { return d.ID }, "battlefield"); err != nil {
		return nil, err
	}
	enemies, err := LoadEnemies(opts.Dirs.Enemies)
	if err != nil {
		return nil, err
	}
	if lib.enemies, err = index(enemies, func(d *EnemyDef) string { return d.ID }, "enemy"); err != nil {
		return nil, err
	}
	chars, err := LoadCharacters(opts.Dirs.Characters)
	if err != nil {
		return nil, err
	}
	if lib.characters, err = index(chars, func(d *CharacterDef) string { return d.ID }, "character"); err != nil {
		return nil, err
	}
	gear, err := LoadEquipment(opts.Dirs.Equipment)
	if err != nil {
		return nil, err
	}
	if lib.equipment, err = index(gear, func(d *EquipmentDef) string { return d.ID }, "equipment"); err != nil {
		return nil, err
	}

	if err := lib.crossCheck(opts.Behaviors); err != nil {
		return nil, err
	}
	logger.Info("content loaded",
		zap.Int("battlefields", len(lib.battlefields)),
		zap.Int("enemies", len(lib.enemies)),
		zap.Int("characters", len(lib.characters)),
		zap.Int("equipment", len(lib.equipment)),
		zap.Int("skills", len(skillDefs)),
	)
	return lib, nil
}

func dirExists(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func index[T any](defs []*T, id func(*T) string, kind string) (map[string]*T, error) {
	out := make(map[string]*T, len(defs))
	for _, d := range defs {
		if _, dup := out[id(d)]; dup {
			return nil, fmt.Errorf("%s %q: defined twice", kind, id(d))
		}
		out[id(d)] = d
	}
	return out, nil
}

func (l *Library) crossCheck(behaviors []string) error {
	for _, d := range l.enemies {
		if len(behaviors) > 0 && d.Behavior != "" && !slices.Contains(behaviors, d.Behavior) {
			return fmt.Errorf("enemy %q: unknown behavior %q", d.ID, d.Behavior)
		}
		if err := l.checkSkills("enemy", d.ID, d.Active, d.Passive); err != nil {
			return err
		}
	}
	for _, d := range l.characters {
		if err := l.checkSkills("character", d.ID, d.Active, d.Passive); err != nil {
			return err
		}
	}
	for _, d := range l.battlefields {
		for _, id := range d.EnemyPool {
			if _, ok := l.enemies[id]; !ok {
				return fmt.Errorf("battlefield %q: enemy pool names unknown enemy %q", d.ID, id)
			}
		}
		if b := d.Objective.BossEnemy; b != "" {
			if _, ok := l.enemies[b]; !ok {
				return fmt.Errorf("battlefield %q: unknown boss enemy %q", d.ID, b)
			}
		}
	}
	return nil
}

func (l *Library) checkSkills(kind, id, active, passive string) error {
	if active != "" {
		d, ok := l.skills.Def(active)
		if !ok || d.Passive {
			return fmt.Errorf("%s %q: active_skill %q is not a registered active skill", kind, id, active)
		}
	}
	if passive != "" {
		d, ok := l.skills.Def(passive)
		if !ok || !d.Passive {
			return fmt.Errorf("%s %q: passive_skill %q is not a registered passive skill", kind, id, passive)
		}
	}
	return nil
}

// BattlefieldIDs lists battlefield IDs in sorted order.
func (l *Library) BattlefieldIDs() []string { return sortedKeys(l.battlefields) }

// EnemyIDs lists enemy IDs in sorted order.
func (l *Library) EnemyIDs() []string { return sortedKeys(l.enemies) }

// CharacterIDs lists character IDs in sorted order.
func (l *Library) CharacterIDs() []string { return sortedKeys(l.characters) }

// EquipmentIDs lists equipment IDs in sorted order.
func (l *Library) EquipmentIDs() []string { return sortedKeys(l.equipment) }

func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Battlefield returns a fresh battlefield template and its objective.
func (l *Library) Battlefield(id string) (*grid.Battlefield, combat.Objective, error) {
	d, ok := l.battlefields[id]
	if !ok {
		return nil, nil, fmt.Errorf("unknown battlefield %q", id)
	}
	field, err := d.Build()
	if err != nil {
		return nil, nil, err
	}
	return field, d.Objective.Build(), nil
}

// Enemy builds a new enemy from its definition with fresh skill instances.
func (l *Library) Enemy(id string) (*combat.Enemy, error) {
	d, ok := l.enemies[id]
	if !ok {
		return nil, fmt.Errorf("unknown enemy %q", id)
	}
	base, err := l.entity(d.Name, d.Stats, d.MovementRange, d.Active, d.Passive)
	if err != nil {
		return nil, fmt.Errorf("enemy %q: %w", id, err)
	}
	e := combat.NewEnemy(base, d.Description)
	e.Behavior = d.Behavior
	return e, nil
}

// Character builds a character wearing the loadout's equipment.
//
// Postcondition: Returns an error when any ID is unknown or equipment sits in
// the wrong slot.
func (l *Library) Character(lo Loadout) (*combat.Character, error) {
	d, ok := l.characters[lo.Character]
	if !ok {
		return nil, fmt.Errorf("unknown character %q", lo.Character)
	}
	weapon, err := l.gear(lo.Weapon, SlotWeapon)
	if err != nil {
		return nil, err
	}
	artefact, err := l.gear(lo.Artefact, SlotArtefact)
	if err != nil {
		return nil, err
	}
	base, err := l.entity(d.Name, d.Stats, d.MovementRange, d.Active, d.Passive)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", d.ID, err)
	}
	return combat.NewCharacter(base, weapon, artefact), nil
}

func (l *Library) gear(id string, slot Slot) (*combat.Entity, error) {
	if id == "" {
		return nil, nil
	}
	d, ok := l.equipment[id]
	if !ok {
		return nil, fmt.Errorf("unknown equipment %q", id)
	}
	if d.Slot != slot {
		return nil, fmt.Errorf("equipment %q is a %s, not a %s", id, d.Slot, slot)
	}
	name := d.Name
	if name == "" {
		name = d.ID
	}
	return &combat.Entity{Name: name, Stats: d.Stats}, nil
}

func (l *Library) entity(name string, block stats.Block, move int, active, passive string) (combat.Entity, error) {
	if move == 0 {
		move = l.defaultMove
	}
	e := combat.Entity{Name: name, Stats: block, MovementRange: move}
	if active != "" {
		s, err := l.skills.Active(active)
		if err != nil {
			return combat.Entity{}, err
		}
		e.Active = s
	}
	if passive != "" {
		h, err := l.skills.Passive(passive)
		if err != nil {
			return combat.Entity{}, err
		}
		e.Passive = h
	}
	return e, nil
}

// Encounter is a battlefield with its objective and a freshly built enemy roster.
type Encounter struct {
	BattlefieldID string
	Field         *grid.Battlefield
	Objective     combat.Objective
	Enemies       []*combat.Enemy
}

// RandomEncounter picks a battlefield and fills every enemy slot from that
// battlefield's pool (or all enemies when it has none). A kill_boss
// battlefield with boss_enemy always gets that enemy in the boss slot.
func (l *Library) RandomEncounter(src dice.Source) (*Encounter, error) {
	ids := l.BattlefieldIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("no battlefields loaded")
	}
	return l.Encounter(ids[src.Intn(len(ids))], src)
}

// Encounter builds an encounter on battlefield id with random enemies.
func (l *Library) Encounter(id string, src dice.Source) (*Encounter, error) {
	field, obj, err := l.Battlefield(id)
	if err != nil {
		return nil, err
	}
	d := l.battlefields[id]
	pool := d.EnemyPool
	if len(pool) == 0 {
		pool = l.EnemyIDs()
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("battlefield %q: no enemies to draw from", id)
	}
	enc := &Encounter{BattlefieldID: id, Field: field, Objective: obj}
	for slot := 0; slot < field.EnemyCount(); slot++ {
		pick := pool[src.Intn(len(pool))]
		if d.Objective.Kind == ObjectiveKillBoss && d.Objective.BossEnemy != "" && slot == d.Objective.Boss {
			pick = d.Objective.BossEnemy
		}
		e, err := l.Enemy(pick)
		if err != nil {
			return nil, err
		}
		enc.Enemies = append(enc.Enemies, e)
	}
	return enc, nil
}
