package skills

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/scripting"
)

// Registry indexes skill definitions by ID and builds fresh skill instances
// from them. Every combatant gets its own instance so cooldowns are never shared.
type Registry struct {
	defs    map[string]Def
	roller  *dice.Roller
	scripts *scripting.Manager
	logger  *zap.Logger
}

// NewRegistry returns an empty Registry. scripts may be nil when no script
// skills are registered.
//
// Precondition: roller must not be nil.
func NewRegistry(roller *dice.Roller, scripts *scripting.Manager, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{defs: make(map[string]Def), roller: roller, scripts: scripts, logger: logger}
}

// Register validates and stores d.
//
// Postcondition: Returns an error on an invalid definition, an ID collision,
// or a script skill whose script is not loaded.
func (r *Registry) Register(d Def) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := r.defs[d.ID]; exists {
		return fmt.Errorf("skill %q: already registered", d.ID)
	}
	if d.Kind == KindScript && (r.scripts == nil || !r.scripts.Has(d.Script)) {
		return fmt.Errorf("skill %q: script %q is not loaded", d.ID, d.Script)
	}
	r.defs[d.ID] = d
	return nil
}

// Def returns the definition for id.
func (r *Registry) Def(id string) (Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Active builds a new active skill instance for id.
func (r *Registry) Active(id string) (combat.ActiveSkill, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("skill %q: not registered", id)
	}
	if d.Passive {
		return nil, fmt.Errorf("skill %q: is passive", id)
	}
	if d.Kind == KindScript {
		return &Script{ScriptHooks: r.scriptHooks(d), Cooldown: combat.NewCooldown(d.Cooldown), name: d.DisplayName()}, nil
	}
	base := active{
		Cooldown: combat.NewCooldown(d.Cooldown),
		name:     d.DisplayName(),
		amount:   dice.MustParse(d.Amount),
		roller:   r.roller,
	}
	switch d.Kind {
	case KindBulwark:
		return &Bulwark{active: base}, nil
	case KindRally:
		return &Rally{active: base}, nil
	case KindBerserk:
		return &Berserk{active: base}, nil
	}
	return nil, fmt.Errorf("skill %q: kind %q is not active", id, d.Kind)
}

// Passive builds a new passive skill instance for id.
func (r *Registry) Passive(id string) (combat.Hooks, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("skill %q: not registered", id)
	}
	if !d.Passive {
		return nil, fmt.Errorf("skill %q: is not passive", id)
	}
	switch d.Kind {
	case KindScript:
		h := r.scriptHooks(d)
		return &h, nil
	case KindIronhide:
		return &Ironhide{amount: dice.MustParse(d.Amount), roller: r.roller}, nil
	case KindPiercing:
		return &Piercing{amount: dice.MustParse(d.Amount), roller: r.roller}, nil
	}
	return nil, fmt.Errorf("skill %q: kind %q is not passive", id, d.Kind)
}

func (r *Registry) scriptHooks(d Def) ScriptHooks {
	return ScriptHooks{scripts: r.scripts, id: d.Script, logger: r.logger}
}
