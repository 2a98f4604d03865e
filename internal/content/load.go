package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gridtactics/internal/game/skills"
)

// decodeStrict parses one YAML document into v, rejecting unknown fields.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty document")
		}
		return err
	}
	return nil
}

// loadDir reads every *.yaml / *.yml file in dir in name order, decodes one T
// per file and validates it. A missing directory yields no definitions.
//
// Postcondition: Returns every definition or the first error; partial results
// are discarded.
func loadDir[T any](dir string, validate func(*T) error) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(e.Name())); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []*T
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		v := new(T)
		if err := decodeStrict(data, v); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := validate(v); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadBattlefields loads every battlefield definition in dir.
func LoadBattlefields(dir string) ([]*BattlefieldDef, error) {
	return loadDir(dir, (*BattlefieldDef).Validate)
}

// LoadEnemies loads every enemy definition in dir.
func LoadEnemies(dir string) ([]*EnemyDef, error) {
	return loadDir(dir, (*EnemyDef).Validate)
}

// LoadCharacters loads every character definition in dir.
func LoadCharacters(dir string) ([]*CharacterDef, error) {
	return loadDir(dir, (*CharacterDef).Validate)
}

// LoadEquipment loads every weapon and artefact definition in dir.
func LoadEquipment(dir string) ([]*EquipmentDef, error) {
	return loadDir(dir, (*EquipmentDef).Validate)
}

// LoadSkills loads every skill definition in dir.
func LoadSkills(dir string) ([]*skills.Def, error) {
	return loadDir(dir, func(d *skills.Def) error { return d.Validate() })
}
