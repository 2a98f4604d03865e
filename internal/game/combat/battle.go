package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/grid"
)

// Phase is the turn state of a Battle.
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlayer
	PhaseEnemy
	PhaseResolved
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlayer:
		return "player"
	case PhaseEnemy:
		return "enemy"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome is how a resolved battle ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}

//go:generate mockgen -destination=mock/mock_controller.go -package=combatmock github.com/cory-johannsen/gridtactics/internal/game/combat Controller

// Controller decides and performs one enemy's turn through the Battle's
// enemy-phase methods (EnemySkill, AdvanceEnemy, EnemyAttack, EnemyPass).
type Controller interface {
	Act(b *Battle, e *Enemy) error
}

// Battle owns the rosters, a private copy of the battlefield and the action log
// for one session. Occupancy is always derived from roster positions.
type Battle struct {
	players    []*Character
	enemies    []*Enemy
	field      *grid.Battlefield
	controller Controller
	logger     *zap.Logger

	log     []LogEntry
	phase   Phase
	round   int
	outcome Outcome
}

// NewBattle builds a Battle in PhaseSetup. The battlefield is cloned so the
// caller's template is never touched. A nil controller makes every enemy pass;
// a nil logger disables logging.
//
// Precondition: players, enemies and field must be non-empty / non-nil.
// Postcondition: Returns a Battle awaiting Initialise, or an error.
func NewBattle(players []*Character, enemies []*Enemy, field *grid.Battlefield, controller Controller, logger *zap.Logger) (*Battle, error) {
	if field == nil {
		return nil, errors.New("battle: battlefield must not be nil")
	}
	if len(players) == 0 {
		return nil, errors.New("battle: at least one player is required")
	}
	if len(enemies) == 0 {
		return nil, errors.New("battle: at least one enemy is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Battle{
		players:    append([]*Character(nil), players...),
		enemies:    append([]*Enemy(nil), enemies...),
		field:      field.Clone(),
		controller: controller,
		logger:     logger,
	}, nil
}

// Initialise places players on player start tiles and enemies on enemy start
// tiles in row-major order, assigns roster indices, refills movement and opens
// round 1 in PhasePlayer.
//
// Precondition: Phase() == PhaseSetup.
// Postcondition: Returns an error when the enemy count does not match the map or
// there are more players than player start tiles.
func (b *Battle) Initialise() error {
	if b.phase != PhaseSetup {
		return fmt.Errorf("initialise: %w (phase %s)", ErrWrongPhase, b.phase)
	}
	if len(b.enemies) != b.field.EnemyCount() {
		return fmt.Errorf("initialise: battlefield %q expects %d enemies, got %d",
			b.field.Name(), b.field.EnemyCount(), len(b.enemies))
	}
	starts := b.field.StartTiles(grid.PlayerStart)
	if len(b.players) > len(starts) {
		return fmt.Errorf("initialise: battlefield %q has %d player start tiles, got %d players",
			b.field.Name(), len(starts), len(b.players))
	}
	for i, p := range b.players {
		p.Index = i
		p.Pos = starts[i]
		p.CurrentMovementRange = p.MovementRange
	}
	enemyStarts := b.field.StartTiles(grid.EnemyStart)
	for i, e := range b.enemies {
		e.Index = i
		e.Pos = enemyStarts[i]
		e.CurrentMovementRange = e.MovementRange
	}
	b.phase = PhasePlayer
	b.round = 1
	b.logger.Info("battle initialised",
		zap.String("battlefield", b.field.Name()),
		zap.Int("players", len(b.players)),
		zap.Int("enemies", len(b.enemies)),
	)
	return nil
}

// Phase returns the current turn phase.
func (b *Battle) Phase() Phase { return b.phase }

// Round returns the current round number, starting at 1 after Initialise.
func (b *Battle) Round() int { return b.round }

// Outcome returns how the battle ended, or OutcomeNone while it is running.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Field returns the battle's private battlefield.
func (b *Battle) Field() *grid.Battlefield { return b.field }

// Players returns the living player characters in roster order.
//
// Postcondition: Every returned character IsAlive.
func (b *Battle) Players() []*Character {
	var out []*Character
	for _, p := range b.players {
		if p.IsAlive() {
			out = append(out, p)
		}
	}
	return out
}

// Enemies returns the living enemies in roster order.
//
// Postcondition: Every returned enemy IsAlive.
func (b *Battle) Enemies() []*Enemy {
	var out []*Enemy
	for _, e := range b.enemies {
		if e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// Roster returns every player character, alive or dead, in roster order.
func (b *Battle) Roster() []*Character {
	return append([]*Character(nil), b.players...)
}

// EnemyRoster returns every enemy, alive or dead, in roster order.
func (b *Battle) EnemyRoster() []*Enemy {
	return append([]*Enemy(nil), b.enemies...)
}

// Player returns the character at roster index idx.
func (b *Battle) Player(idx int) (*Character, error) {
	if idx < 0 || idx >= len(b.players) {
		return nil, fmt.Errorf("player %d: %w", idx, ErrUnknownCombatant)
	}
	return b.players[idx], nil
}

// Enemy returns the enemy at roster index idx.
func (b *Battle) Enemy(idx int) (*Enemy, error) {
	if idx < 0 || idx >= len(b.enemies) {
		return nil, fmt.Errorf("enemy %d: %w", idx, ErrUnknownCombatant)
	}
	return b.enemies[idx], nil
}

// Log returns a copy of the full action log.
func (b *Battle) Log() []LogEntry {
	return append([]LogEntry(nil), b.log...)
}

// LogTail returns a copy of the last n log entries.
func (b *Battle) LogTail(n int) []LogEntry {
	if n <= 0 {
		return nil
	}
	if n > len(b.log) {
		n = len(b.log)
	}
	return append([]LogEntry(nil), b.log[len(b.log)-n:]...)
}

// OccupantAt returns the living combatant standing on c, or nil.
func (b *Battle) OccupantAt(c grid.Coordinate) Combatant {
	for _, p := range b.players {
		if p.IsAlive() && p.Pos == c {
			return p
		}
	}
	for _, e := range b.enemies {
		if e.IsAlive() && e.Pos == c {
			return e
		}
	}
	return nil
}

// OccupiedSquares returns the positions of every living combatant.
func (b *Battle) OccupiedSquares() []grid.Coordinate {
	var out []grid.Coordinate
	for _, p := range b.Players() {
		out = append(out, p.Pos)
	}
	for _, e := range b.Enemies() {
		out = append(out, e.Pos)
	}
	return out
}

// Evaluate checks obj and resolves the battle on victory or defeat. Victory is
// checked first so a finishing blow is never scored as a loss.
//
// Postcondition: Returns the (possibly already fixed) outcome; Phase() is
// PhaseResolved iff the outcome is not OutcomeNone.
func (b *Battle) Evaluate(obj Objective) Outcome {
	if b.phase == PhaseResolved || obj == nil || b.phase == PhaseSetup {
		return b.outcome
	}
	switch {
	case obj.IsVictory(b):
		b.resolve(OutcomeVictory)
	case obj.IsDefeat(b):
		b.resolve(OutcomeDefeat)
	}
	return b.outcome
}

func (b *Battle) resolve(o Outcome) {
	b.outcome = o
	b.phase = PhaseResolved
	b.logger.Info("battle resolved",
		zap.String("battlefield", b.field.Name()),
		zap.Stringer("outcome", o),
		zap.Int("round", b.round),
	)
}

func (b *Battle) requirePhase(want Phase) error {
	switch b.phase {
	case want:
		return nil
	case PhaseResolved:
		return ErrBattleResolved
	case PhaseSetup:
		return ErrBattleNotStarted
	default:
		return fmt.Errorf("%w: in %s phase, need %s", ErrWrongPhase, b.phase, want)
	}
}

func (b *Battle) record(e LogEntry) LogEntry {
	e.Round = b.round
	b.log = append(b.log, e)
	b.logger.Debug("battle action",
		zap.Int("round", e.Round),
		zap.String("actor", e.Actor),
		zap.String("kind", string(e.Kind)),
		zap.String("target", e.Target),
		zap.Int("damage", e.Damage),
	)
	return e
}
