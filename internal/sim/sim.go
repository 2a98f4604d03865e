// Package sim runs unattended battles: the Autopilot plays the party against
// the registered enemy behaviours, and each finished battle is tallied and
// passed on to a ResultRecorder.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/content"
	"github.com/cory-johannsen/gridtactics/internal/game/ai"
	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/session"
)

// DefaultMaxRounds bounds a battle in which neither side can reach the other.
const DefaultMaxRounds = 200

// ErrStalemate is returned when a battle does not resolve within MaxRounds.
var ErrStalemate = errors.New("battle did not resolve")

// Config describes a simulation run.
type Config struct {
	// Battlefield pins every battle to one battlefield; empty picks at random.
	Battlefield string
	// Party is the player roster, rebuilt fresh for every battle.
	Party []content.Loadout
	// MaxRounds abandons a battle still running after this many rounds; 0 means DefaultMaxRounds.
	MaxRounds int
}

// Tally counts outcomes on one battlefield.
type Tally struct {
	Battles   int
	Victories int
	Defeats   int
	Rounds    int
}

// WinRate returns Victories/Battles, or 0 before any battle.
func (t Tally) WinRate() float64 {
	if t.Battles == 0 {
		return 0
	}
	return float64(t.Victories) / float64(t.Battles)
}

// MeanRounds returns the average battle length in rounds.
func (t Tally) MeanRounds() float64 {
	if t.Battles == 0 {
		return 0
	}
	return float64(t.Rounds) / float64(t.Battles)
}

// Summary aggregates a run.
type Summary struct {
	Total       Tally
	Stalemates  int
	Battlefield map[string]Tally
}

// Battlefields returns the battlefield ids in the summary, sorted.
func (s Summary) Battlefields() []string {
	out := make([]string, 0, len(s.Battlefield))
	for id := range s.Battlefield {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Runner plays battles through a private session.Manager.
type Runner struct {
	lib      *content.Library
	enemies  combat.Controller
	pilot    *ai.Autopilot
	src      dice.Source
	cfg      Config
	manager  *session.Manager
	logger   *zap.Logger

	mu      sync.Mutex
	summary Summary
	next    session.ResultRecorder
}

// NewRunner builds a Runner. Results are tallied and then forwarded to
// recorder when it is non-nil.
//
// Precondition: lib, enemies and src must not be nil; cfg.Party must name at least one character.
func NewRunner(lib *content.Library, enemies combat.Controller, src dice.Source, cfg Config, recorder session.ResultRecorder, logger *zap.Logger) (*Runner, error) {
	if len(cfg.Party) == 0 {
		return nil, errors.New("sim: party must not be empty")
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		lib:     lib,
		enemies: enemies,
		pilot:   ai.NewAutopilot(src, logger),
		src:     src,
		cfg:     cfg,
		logger:  logger,
		next:    recorder,
		summary: Summary{Battlefield: make(map[string]Tally)},
	}
	r.manager = session.NewManager(0, r, logger)
	return r, nil
}

// Record implements session.ResultRecorder.
func (r *Runner) Record(ctx context.Context, res session.Result) error {
	r.mu.Lock()
	t := r.summary.Battlefield[res.Battlefield]
	for _, tally := range []*Tally{&t, &r.summary.Total} {
		tally.Battles++
		tally.Rounds += res.Rounds
		switch res.Outcome {
		case combat.OutcomeVictory.String():
			tally.Victories++
		case combat.OutcomeDefeat.String():
			tally.Defeats++
		}
	}
	r.summary.Battlefield[res.Battlefield] = t
	r.mu.Unlock()
	if r.next == nil {
		return nil
	}
	return r.next.Record(ctx, res)
}

// Summary returns a copy of the tallies so far.
func (r *Runner) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Summary{Total: r.summary.Total, Stalemates: r.summary.Stalemates, Battlefield: make(map[string]Tally, len(r.summary.Battlefield))}
	for id, t := range r.summary.Battlefield {
		out.Battlefield[id] = t
	}
	return out
}

// RunOne plays a single battle to resolution.
//
// Postcondition: Returns the final outcome, or ErrStalemate after MaxRounds
// (the session is abandoned and nothing is recorded).
func (r *Runner) RunOne(ctx context.Context) (combat.Outcome, error) {
	enc, err := r.encounter()
	if err != nil {
		return combat.OutcomeNone, err
	}
	players := make([]*combat.Character, 0, len(r.cfg.Party))
	for _, lo := range r.cfg.Party {
		c, err := r.lib.Character(lo)
		if err != nil {
			return combat.OutcomeNone, err
		}
		players = append(players, c)
	}
	b, err := combat.NewBattle(players, enc.Enemies, enc.Field, r.enemies, r.logger)
	if err != nil {
		return combat.OutcomeNone, err
	}
	s, err := r.manager.Start(enc.BattlefieldID, b, enc.Objective)
	if err != nil {
		return combat.OutcomeNone, err
	}

	for {
		select {
		case <-s.Done():
			return s.Status().Outcome, nil
		default:
		}
		if err := ctx.Err(); err != nil {
			_ = r.manager.Abandon(s.ID)
			return combat.OutcomeNone, err
		}
		if s.Status().Round > r.cfg.MaxRounds {
			_ = r.manager.Abandon(s.ID)
			r.mu.Lock()
			r.summary.Stalemates++
			r.mu.Unlock()
			return combat.OutcomeNone, fmt.Errorf("%w: %s after %d rounds", ErrStalemate, enc.BattlefieldID, r.cfg.MaxRounds)
		}
		if err := r.manager.Do(ctx, s.ID, r.pilot.PlayTurn); err != nil {
			return combat.OutcomeNone, err
		}
	}
}

// Run plays n battles in sequence. Stalemates are counted and skipped; any
// other error stops the run.
//
// Postcondition: Returns the summary of every battle played so far.
func (r *Runner) Run(ctx context.Context, n int) (Summary, error) {
	for i := 0; i < n; i++ {
		if _, err := r.RunOne(ctx); err != nil {
			if errors.Is(err, ErrStalemate) {
				r.logger.Warn("battle abandoned", zap.Int("battle", i+1), zap.Error(err))
				continue
			}
			return r.Summary(), fmt.Errorf("battle %d: %w", i+1, err)
		}
	}
	return r.Summary(), nil
}

func (r *Runner) encounter() (*content.Encounter, error) {
	if r.cfg.Battlefield != "" {
		return r.lib.Encounter(r.cfg.Battlefield, r.src)
	}
	return r.lib.RandomEncounter(r.src)
}
