package ai

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
)

// Behaviour names accepted in enemy content.
const (
	BehaviorHunter   = "hunter"
	BehaviorSentinel = "sentinel"
)

// Registry indexes controllers by behaviour name and itself implements
// combat.Controller by dispatching on each enemy's Behavior.
//
// Invariant: each behaviour is registered at most once; fallback is registered.
type Registry struct {
	controllers map[string]combat.Controller
	fallback    string
}

// NewRegistry returns a Registry with the built-in behaviours, defaulting to
// BehaviorHunter.
func NewRegistry(src dice.Source, logger *zap.Logger) *Registry {
	r := &Registry{controllers: make(map[string]combat.Controller), fallback: BehaviorHunter}
	r.controllers[BehaviorHunter] = NewPathController(src, logger)
	r.controllers[BehaviorSentinel] = NewSentinel(src)
	return r
}

// Register adds a controller under name.
//
// Postcondition: Returns an error on a name collision.
func (r *Registry) Register(name string, c combat.Controller) error {
	if _, exists := r.controllers[name]; exists {
		return fmt.Errorf("ai.Registry: behavior %q already registered", name)
	}
	r.controllers[name] = c
	return nil
}

// ControllerFor returns the controller for name, or false if not registered.
func (r *Registry) ControllerFor(name string) (combat.Controller, bool) {
	c, ok := r.controllers[name]
	return c, ok
}

// Behaviors lists the registered names in sorted order.
func (r *Registry) Behaviors() []string {
	out := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Act implements combat.Controller. An empty Behavior selects the fallback.
func (r *Registry) Act(b *combat.Battle, e *combat.Enemy) error {
	name := e.Behavior
	if name == "" {
		name = r.fallback
	}
	c, ok := r.controllers[name]
	if !ok {
		return fmt.Errorf("ai.Registry: unknown behavior %q for %s", name, e.Name)
	}
	return c.Act(b, e)
}
