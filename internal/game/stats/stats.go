// Package stats defines the numeric stat model shared by every combatant and
// piece of equipment.
package stats

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxTier is the highest power rank.
const MaxTier = 5

// tierStepPercent is the per-tier bonus in whole percent.
const tierStepPercent = 2

// Name identifies one stat in a Block.
type Name string

const (
	PrimaryHealth   Name = "primary_health"
	SecondaryHealth Name = "secondary_health"
	PhysicalDefense Name = "physical_defense"
	PhysicalAttack  Name = "physical_attack"
	MagicalDefense  Name = "magical_defense"
	MagicalAttack   Name = "magical_attack"
)

// Names lists every stat in declaration order.
var Names = []Name{PrimaryHealth, SecondaryHealth, PhysicalDefense, PhysicalAttack, MagicalDefense, MagicalAttack}

// Stat is either a flat amount or a whole-number percentage modifier, never both.
type Stat struct {
	Percent bool `yaml:"percent"`
	Value   int  `yaml:"value"`
}

// Flat returns a flat stat of v.
func Flat(v int) Stat { return Stat{Value: v} }

// Percentage returns a percent modifier of v (15 means +15%).
func Percentage(v int) Stat { return Stat{Percent: true, Value: v} }

// Raw returns the flat amount, or 0 for a percentage.
func (s Stat) Raw() int {
	if s.Percent {
		return 0
	}
	return s.Value
}

// Modifier returns the percentage, or 0 for a flat amount.
func (s Stat) Modifier() int {
	if s.Percent {
		return s.Value
	}
	return 0
}

// String renders "12" or "+15%".
func (s Stat) String() string {
	if s.Percent {
		return fmt.Sprintf("%+d%%", s.Value)
	}
	return fmt.Sprintf("%d", s.Value)
}

// UnmarshalYAML accepts a scalar ("12", "15%", "-5%") or the mapping form
// {percent: true, value: 15}.
func (s *Stat) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		type plain Stat
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*s = Stat(p)
		return nil
	}
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: stat must be a number, a percentage or a mapping", node.Line)
	}
	text := strings.TrimSpace(node.Value)
	percent := strings.HasSuffix(text, "%")
	v, err := strconv.Atoi(strings.TrimSuffix(text, "%"))
	if err != nil {
		return fmt.Errorf("line %d: invalid stat %q", node.Line, node.Value)
	}
	*s = Stat{Percent: percent, Value: v}
	return nil
}

// Block is a named stat bundle plus tier and the run-time health pools.
//
// The Max* and Current* pools are derived once when a combatant spawns and are
// only changed by damage and healing afterwards.
type Block struct {
	PrimaryHealth   Stat `yaml:"primary_health"`
	SecondaryHealth Stat `yaml:"secondary_health"`
	PhysicalDefense Stat `yaml:"physical_defense"`
	PhysicalAttack  Stat `yaml:"physical_attack"`
	MagicalDefense  Stat `yaml:"magical_defense"`
	MagicalAttack   Stat `yaml:"magical_attack"`
	Tier            int  `yaml:"tier"`

	CurrentPrimaryHealth   int `yaml:"-"`
	CurrentSecondaryHealth int `yaml:"-"`
	MaxPrimaryHealth       int `yaml:"-"`
	MaxSecondaryHealth     int `yaml:"-"`
}

// Get returns the stat named n; the zero Stat for an unknown name.
func (b *Block) Get(n Name) Stat {
	switch n {
	case PrimaryHealth:
		return b.PrimaryHealth
	case SecondaryHealth:
		return b.SecondaryHealth
	case PhysicalDefense:
		return b.PhysicalDefense
	case PhysicalAttack:
		return b.PhysicalAttack
	case MagicalDefense:
		return b.MagicalDefense
	case MagicalAttack:
		return b.MagicalAttack
	default:
		return Stat{}
	}
}

// TierPercent returns the tier bonus in whole percent: 2 per tier.
// It is always recomputed from Tier and never stored.
func (b *Block) TierPercent() int {
	return tierStepPercent * b.Tier
}

// TierModifier returns the tier bonus as a fraction (0.02 per tier).
func (b *Block) TierModifier() float64 {
	return float64(b.TierPercent()) / 100
}

// Validate checks the static parts of the block.
//
// Postcondition: Returns nil iff Tier is in [0, MaxTier] and no flat stat is negative.
func (b *Block) Validate() error {
	if b.Tier < 0 || b.Tier > MaxTier {
		return fmt.Errorf("tier must be 0-%d, got %d", MaxTier, b.Tier)
	}
	for _, n := range Names {
		s := b.Get(n)
		if !s.Percent && s.Value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", n, s.Value)
		}
	}
	return nil
}

// Scale applies a whole-percent multiplier to raw, truncating toward zero.
//
// Postcondition: Returns raw*(100+percent)/100 using integer division.
func Scale(raw, percent int) int {
	return raw * (100 + percent) / 100
}
