// Package skills provides the concrete skill variants and builds them from
// content definitions.
package skills

import (
	"fmt"

	"github.com/cory-johannsen/gridtactics/internal/game/dice"
)

// Kind selects a skill implementation.
type Kind string

// Active kinds.
const (
	KindBulwark Kind = "bulwark"
	KindRally   Kind = "rally"
	KindBerserk Kind = "berserk"
)

// Passive kinds.
const (
	KindIronhide Kind = "ironhide"
	KindPiercing Kind = "piercing"
)

// KindScript is valid as either an active or a passive skill.
const KindScript Kind = "script"

// Def is a skill definition as written in content.
type Def struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Kind     Kind   `yaml:"kind"`
	Passive  bool   `yaml:"passive"`
	Cooldown int    `yaml:"cooldown"`
	// Amount is a flat number or dice expression, e.g. "15" or "2d6+4".
	Amount string `yaml:"amount"`
	// Script is the script ID for KindScript skills.
	Script string `yaml:"script"`
}

// Validate checks the definition without building it.
//
// Postcondition: Returns nil iff the definition is internally consistent.
func (d Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("skill: id must not be empty")
	}
	if d.Cooldown < 0 {
		return fmt.Errorf("skill %q: cooldown must be >= 0", d.ID)
	}
	switch d.Kind {
	case KindBulwark, KindRally, KindBerserk:
		if d.Passive {
			return fmt.Errorf("skill %q: %s cannot be passive", d.ID, d.Kind)
		}
	case KindIronhide, KindPiercing:
		if !d.Passive {
			return fmt.Errorf("skill %q: %s must be passive", d.ID, d.Kind)
		}
	case KindScript:
		if d.Script == "" {
			return fmt.Errorf("skill %q: script kind requires script", d.ID)
		}
		return nil
	default:
		return fmt.Errorf("skill %q: unknown kind %q", d.ID, d.Kind)
	}
	if _, err := dice.Parse(d.Amount); err != nil {
		return fmt.Errorf("skill %q: amount: %w", d.ID, err)
	}
	return nil
}

// DisplayName returns Name, falling back to ID.
func (d Def) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
