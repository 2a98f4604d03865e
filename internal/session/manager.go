package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/observability"
)

// ErrSessionNotFound is returned for an unknown, finished or abandoned session.
var ErrSessionNotFound = errors.New("session not found")

// Result summarises a resolved battle.
type Result struct {
	SessionID   string    `json:"session_id"`
	Battlefield string    `json:"battlefield"`
	Outcome     string    `json:"outcome"`
	Rounds      int       `json:"rounds"`
	Players     []string  `json:"players"`
	Survivors   int       `json:"survivors"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

//go:generate mockgen -destination=mock/mock_recorder.go -package=sessionmock github.com/cory-johannsen/gridtactics/internal/session ResultRecorder

// ResultRecorder stores finished battle results.
type ResultRecorder interface {
	Record(ctx context.Context, r Result) error
}

// Manager tracks all running sessions.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	idle     time.Duration
	recorder ResultRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewManager creates an empty Manager. idle of zero disables abandonment; a
// nil recorder drops results; a nil logger disables logging.
func NewManager(idle time.Duration, recorder ResultRecorder, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		idle:     idle,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Start hosts b under a new session ID. A battle still in setup is
// initialised; a nil objective means combat.Standard.
//
// Precondition: b must not be shared with any other caller afterwards.
// Postcondition: Returns the running session or the initialisation error.
func (m *Manager) Start(battlefieldID string, b *combat.Battle, obj combat.Objective) (*Session, error) {
	if b.Phase() == combat.PhaseSetup {
		if err := b.Initialise(); err != nil {
			return nil, err
		}
	}
	if obj == nil {
		obj = combat.Standard{}
	}
	now := m.now()
	s := &Session{
		ID:            uuid.New(),
		BattlefieldID: battlefieldID,
		StartedAt:     now,
		battle:        b,
		objective:     obj,
		lastActive:    now,
		done:          make(chan struct{}),
	}
	s.logger = observability.BattleLogger(m.logger, s.ID.String(), battlefieldID)
	s.logger.Info("session started", zap.Int("players", len(b.Roster())), zap.Int("enemies", len(b.EnemyRoster())))

	m.mu.Lock()
	m.sessions[s.ID] = s
	if m.idle > 0 {
		id := s.ID
		s.timer = NewIdleTimer(m.idle, func() { m.expire(id) })
	}
	m.mu.Unlock()
	return s, nil
}

// Get returns the running session for id.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Apply performs one action in session id.
//
// Postcondition: Returns the action's log entries. A resolving action also
// ends the session and records its result.
func (m *Manager) Apply(ctx context.Context, id uuid.UUID, a combat.Action) ([]combat.LogEntry, error) {
	var entries []combat.LogEntry
	err := m.Do(ctx, id, func(b *combat.Battle, obj combat.Objective) error {
		var err error
		entries, err = b.Apply(a, obj)
		return err
	})
	return entries, err
}

// Do runs fn against session id's battle under the session lock and counts as
// activity for the idle timer. It is the hook for drivers such as the
// autopilot that issue several actions at once.
//
// Postcondition: When the battle is resolved afterwards the session ends and
// its result is recorded; a recording failure is joined to fn's error.
func (m *Manager) Do(ctx context.Context, id uuid.UUID, fn func(b *combat.Battle, obj combat.Objective) error) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.lastActive = m.now()
	if s.timer != nil {
		s.timer.Reset()
	}
	err := fn(s.battle, s.objective)
	var (
		finished bool
		res      Result
	)
	if s.battle.Phase() == combat.PhaseResolved && s.close(false) {
		finished = true
		res = s.result(m.now())
	}
	s.mu.Unlock()

	if !finished {
		return err
	}
	m.remove(id)
	s.logger.Info("session resolved", zap.String("outcome", res.Outcome), zap.Int("rounds", res.Rounds))
	if m.recorder == nil {
		return err
	}
	if recErr := m.recorder.Record(ctx, res); recErr != nil {
		s.logger.Warn("recording battle result failed", zap.Error(recErr))
		return errors.Join(err, fmt.Errorf("recording result: %w", recErr))
	}
	return err
}

// Abandon ends session id without a result.
//
// Postcondition: Returns ErrSessionNotFound for an unknown or finished session.
func (m *Manager) Abandon(id uuid.UUID) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.mu.Lock()
	closed := s.close(true)
	s.mu.Unlock()
	if !closed {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.remove(id)
	s.logger.Info("session abandoned", zap.String("reason", "requested"))
	return nil
}

// expire abandons session id if it has really been idle for the full timeout.
func (m *Manager) expire(id uuid.UUID) {
	s, ok := m.Get(id)
	if !ok {
		return
	}
	s.mu.Lock()
	idleFor := m.now().Sub(s.lastActive)
	if idleFor < m.idle {
		s.mu.Unlock()
		return
	}
	closed := s.close(true)
	s.mu.Unlock()
	if !closed {
		return
	}
	m.remove(id)
	s.logger.Info("session abandoned", zap.String("reason", "idle"), zap.Duration("idle_for", idleFor))
}

func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Close abandons every running session.
func (m *Manager) Close() {
	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		_ = m.Abandon(id)
	}
}
